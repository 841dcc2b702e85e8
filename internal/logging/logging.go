// Package logging configures the structured logger. The TUI owns the
// terminal, so log output goes to a file in the config directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/session"
)

// LogFileName is the log file created in the config directory
const LogFileName = "groqchat.log"

// New returns a JSON logger writing to w at the given level
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", "groqchat").
		Logger()
}

// Open returns the application logger. When verbose is false it returns a
// disabled logger and a no-op closer.
func Open(verbose bool) (zerolog.Logger, io.Closer, error) {
	if !verbose {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	dir, err := config.EnsureConfigDir()
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), err
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("failed to open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return New(f, zerolog.DebugLevel), f, nil
}

// SessionObserver logs transcript mutations. Turn content is never logged.
func SessionObserver(logger zerolog.Logger, sessionID string) session.Observer {
	l := logger.With().Str("session", sessionID).Logger()
	return func(ev session.Event) {
		e := l.Debug().Str("event", ev.Type.String()).Int("turns", ev.Len)
		if ev.Type == session.EventAppended {
			e = e.Str("role", string(ev.Turn.Role)).Int("chars", len(ev.Turn.Content))
		}
		e.Msg("transcript changed")
	}
}
