package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/render"
	"github.com/diogo/groqchat/internal/tui"
)

func newChatCmd(deps *Dependencies, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with a Groq hosted model.

The chat keeps the conversation in memory for the lifetime of the session.
Press ctrl+s to open the settings panel (API key, model, temperature,
max tokens). Type /help for commands; /exit, esc or ctrl+c quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *options) error {
	cfg := loadConfig(deps)
	rc, err := requestConfig(cmd, opts, cfg)
	if err != nil {
		return err
	}

	// The settings panel asks for a missing key, so never prompt here
	key, err := resolveCredential(deps, opts, false)
	if err != nil {
		return err
	}

	chat, cleanup, err := newChatSession(deps, rc, key, cfg.Verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	tui.ApplyTheme(cfg.TUITheme)

	if err := deps.TUI.RunChat(chat, render.LoadOptions(cfg)); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
