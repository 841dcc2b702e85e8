package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/groqchat/internal/models"
)

// helpText lists the in-chat commands
const helpText = "/clear  reset the chat  •  /model <id>  switch model  •  /settings  open settings  •  /exit, esc or ctrl+c  quit"

func isCommand(input string) bool {
	switch input {
	case "exit", "quit":
		return true
	}
	return strings.HasPrefix(input, "/")
}

// runCommand executes an in-chat slash command
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	switch name {
	case "exit", "quit":
		return m, tea.Quit

	case "clear", "reset":
		return m.clearTranscript()

	case "settings":
		m.openSettings()
		return m, nil

	case "help":
		return m.withNotice(helpText)

	case "model":
		if len(args) == 0 {
			return m.withNotice("Models: " + strings.Join(models.ModelIDs(), ", "))
		}
		if err := m.chat.SetModel(args[0]); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.settings.sync(m.chat)
		return m.withNotice(fmt.Sprintf("Model set to %s", args[0]))
	}

	m.err = fmt.Errorf("unknown command %q, type /help for commands", "/"+name)
	return m, nil
}
