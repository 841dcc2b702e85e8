package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/models"
)

func newModelsCmd(deps *Dependencies, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := opts.model
			if current == "" {
				current = loadConfig(deps).DefaultModel
			}
			printModels(deps, current)
			return nil
		},
	}
}

// printModels lists the model picker entries, marking current
func printModels(deps *Dependencies, current string) {
	idStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(colorTextDim)
	markStyle := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	for _, m := range models.AllModels() {
		mark := "  "
		if m.ID == current {
			mark = markStyle.Render("● ")
		}
		fmt.Fprintf(deps.Stdout, "%s%s  %s\n", mark, idStyle.Render(fmt.Sprintf("%-24s", m.ID)), descStyle.Render(m.Description))
	}
}
