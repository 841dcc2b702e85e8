package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/api"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
	"github.com/diogo/groqchat/internal/session"
)

// noticeTimeout is how long transient notices stay on screen
const noticeTimeout = 3 * time.Second

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// responseMsg carries the outcome of a submission back into Update
	responseMsg struct {
		sub  *api.Submission
		turn models.Turn
		err  error
	}
	// transcriptMsg is sent by the session observer after every mutation
	transcriptMsg struct {
		event session.Event
	}
	noticeClearMsg struct{}
)

// renderKey identifies a rendered assistant reply
type renderKey struct {
	width   int
	content string
}

// Model represents the chat TUI state
type Model struct {
	chat       *api.ChatSession
	renderOpts render.Options
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	settings settingsPanel

	// State
	loading        bool
	ready          bool
	showSettings   bool
	err            error
	notice         string
	animationFrame int
	rendered       map[renderKey]string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat TUI over chat. The settings panel opens first
// when no API key is set.
func NewChatModel(chat *api.ChatSession, renderOpts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		chat:       chat,
		renderOpts: renderOpts,
		copyFn:     clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
		settings:   newSettingsPanel(chat),
		rendered:   make(map[renderKey]string),
	}
	if !chat.Session().HasCredential() {
		m.openSettings()
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearNotice() tea.Cmd {
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return noticeClearMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showSettings {
			return m.updateSettings(msg)
		}

		switch msg.String() {
		case "esc":
			if !m.loading {
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+s":
			m.openSettings()
			return m, textarea.Blink

		case "ctrl+l":
			return m.clearTranscript()

		case "ctrl+y":
			return m.copyLastReply()

		case "enter":
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			if isCommand(input) {
				m.textarea.Reset()
				return m.runCommand(input)
			}
			return m.submit(input)
		}

	case responseMsg:
		m.loading = false
		if err := m.chat.Resolve(msg.sub, msg.turn, msg.err); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case transcriptMsg:
		if msg.event.Type == session.EventCleared {
			m.rendered = make(map[renderKey]string)
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case noticeClearMsg:
		m.notice = ""

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key messages reach the textarea so terminal escape sequences
	// never end up in the input
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit appends the user turn and starts the completion call
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	sub, err := m.chat.Submit(input)
	if err != nil {
		m.err = err
		if apierrors.IsAuthError(err) {
			m.openSettings()
		}
		return m, nil
	}

	m.textarea.Reset()
	m.loading = true
	m.err = nil
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		sendSubmission(sub),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendSubmission runs the completion call off the UI goroutine
func sendSubmission(sub *api.Submission) tea.Cmd {
	return func() tea.Msg {
		turn, err := sub.Send(context.Background())
		return responseMsg{sub: sub, turn: turn, err: err}
	}
}

func (m Model) clearTranscript() (tea.Model, tea.Cmd) {
	if err := m.chat.Reset(); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.rendered = make(map[renderKey]string)
	m.updateViewport()
	return m.withNotice("Chat cleared")
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	last, ok := m.chat.Session().LastAssistant()
	if !ok {
		return m.withNotice("Nothing to copy yet")
	}
	if err := m.copyFn(last.Content); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return m, nil
	}
	return m.withNotice("Copied last reply to clipboard")
}

func (m Model) withNotice(notice string) (tea.Model, tea.Cmd) {
	m.notice = notice
	return m, clearNotice()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4 // header panel with border
	inputHeight := 6  // input panel with border
	statusHeight := 2 // notice + status bar
	padding := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.settings.keyInput.Width = contentWidth - 24
	m.updateViewport()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	// HEADER
	cfg := m.chat.Config()
	keyState := configStatusOkStyle.Render("● key set")
	if !m.chat.Session().HasCredential() {
		keyState = configStatusWarnStyle.Render("○ no API key")
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ Groq Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(cfg.Model),
		hintStyle.Render("  •  "),
		keyState,
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// MESSAGES or SETTINGS
	if m.showSettings {
		sections = append(sections, m.renderSettings(contentWidth))
	} else {
		var messagesContent string
		if m.chat.Session().Len() == 0 {
			messagesContent = m.renderWelcome()
		} else {
			messagesContent = m.viewport.View()
		}
		sections = append(sections, messagesAreaStyle.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(messagesContent))

		// INPUT
		var inputContent string
		if m.loading {
			inputContent = m.renderLoadingAnimation()
		} else {
			inputContent = lipgloss.JoinVertical(lipgloss.Left,
				inputLabelStyle.Render("You"),
				m.textarea.View(),
			)
		}
		sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))
	}

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, m.formatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Groq Chat")
	subtitle := welcomeStyle.Width(width).Render("Start a conversation by typing a message below")

	lines := []string{"", icon, "", title, "", subtitle}
	if !m.chat.Session().HasCredential() {
		lines = append(lines, hintStyle.Width(width).Align(lipgloss.Center).
			Render("Press ctrl+s to enter your Groq API key"))
	} else {
		lines = append(lines, hintStyle.Width(width).Align(lipgloss.Center).
			Render("Type /help for commands"))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated "thinking" indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" thinking ")
	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^S", "Settings"},
		{"^L", "Clear"},
		{"^Y", "Copy"},
		{"Esc", "Quit"},
	}
	if m.showSettings {
		shortcuts = []struct {
			key  string
			desc string
		}{
			{"↑↓", "Navigate"},
			{"←→", "Adjust"},
			{"Enter", "Apply"},
			{"Esc", "Close"},
		}
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport from the session transcript
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, turn := range m.chat.Session().Turns() {
		if i > 0 {
			content.WriteString("\n")
		}

		if turn.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(m.renderReply(turn.Content, bubbleWidth-4))
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// renderReply renders assistant markdown, reusing earlier renders
func (m *Model) renderReply(content string, width int) string {
	key := renderKey{width: width, content: content}
	if out, ok := m.rendered[key]; ok {
		return out
	}
	out := render.Reply(content, m.renderOpts.WithWidth(width))
	m.rendered[key] = out
	return out
}

// formatError formats an error for the chat error line
func (m Model) formatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(errorStyle.Render("⚠ " + apierrors.UserMessage(err)))

	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}

	hint := errorHint(err)
	if apierrors.IsAuthError(err) {
		hint = "Press ctrl+s to enter or change your Groq API key"
	}
	if hint != "" {
		hintLine := lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2)
		sb.WriteString("\n")
		sb.WriteString(hintLine.Render("💡 " + hint))
	}

	return sb.String()
}

// RunChat starts the chat TUI. Session mutations are forwarded to the
// program as transcript messages.
func RunChat(chat *api.ChatSession, renderOpts render.Options) error {
	m := NewChatModel(chat, renderOpts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	// Observers run inside Update when the model itself mutates the
	// session, so Send must not block.
	chat.Session().Subscribe(func(ev session.Event) {
		go p.Send(transcriptMsg{event: ev})
	})

	_, err := p.Run()
	return err
}
