package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/render"
	"github.com/diogo/groqchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(chat *api.ChatSession, renderOpts render.Options) error
	RunConfig() error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(chat *api.ChatSession, renderOpts render.Options) error {
	return tui.RunChat(chat, renderOpts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the completion client.
	NewClient func(opts ...api.ClientOption) (api.CompletionClient, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig returns the persisted user configuration.
	LoadConfig func() (config.Config, error)

	// Getenv looks up environment variables.
	Getenv func(key string) string

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether the prompt should be read from Stdin.
	StdinPiped func() bool

	// StdinTerminal reports whether the API key can be prompted for.
	StdinTerminal func() bool

	// ReadPassword reads a line from the terminal without echo.
	ReadPassword func() (string, error)

	// TerminalWidth returns the width of stdout, or 0 when unknown.
	TerminalWidth func() int

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(text string) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: func(opts ...api.ClientOption) (api.CompletionClient, error) {
			return api.NewClient(opts...)
		},
		TUI:        &DefaultTUI{},
		LoadConfig: config.LoadConfig,
		Getenv:     os.Getenv,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StdinPiped: func() bool {
			stat, err := os.Stdin.Stat()
			if err != nil {
				return false
			}
			return (stat.Mode() & os.ModeCharDevice) == 0
		},
		StdinTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		ReadPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
		TerminalWidth: func() int {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				return 0
			}
			return width
		},
		CopyToClipboard: clipboard.WriteAll,
	}
}

// closeClient releases the client's idle connections when it supports it
func closeClient(client api.CompletionClient) {
	if c, ok := client.(interface{ Close() }); ok {
		c.Close()
	}
}
