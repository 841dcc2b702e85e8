package render

import (
	"os"

	"github.com/diogo/groqchat/internal/config"
)

// StyleEnv overrides the configured markdown style when set
const StyleEnv = "GLAMOUR_STYLE"

// LoadOptions builds render options from the user configuration.
// GLAMOUR_STYLE takes precedence over the configured style.
func LoadOptions(cfg config.Config) Options {
	opts := FromConfig(cfg.Markdown)

	if style := os.Getenv(StyleEnv); style != "" {
		opts.Style = style
	}

	return opts
}
