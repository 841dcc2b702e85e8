package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewModelSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuDefaultModel = iota
	menuTemperature
	menuMaxTokens
	menuVerbose
	menuCopyToClipboard
	menuTheme
	menuTUITheme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel edits the persisted defaults
type ConfigModel struct {
	config    config.Config
	configDir string
	save      func(config.Config) error

	// Navigation
	view           configView
	cursor         int
	modelCursor    int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel loads the configuration and creates the editor
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return newConfigModel(cfg, config.SaveConfig)
}

func newConfigModel(cfg config.Config, save func(config.Config) error) ConfigModel {
	configDir, _ := config.GetConfigDir()

	modelCursor := models.ModelIndex(cfg.DefaultModel)
	if modelCursor < 0 {
		modelCursor = 0
	}

	if cfg.Markdown.Style == "" {
		cfg.Markdown.Style = render.StyleDark
	}
	themeCursor := indexOf(render.StyleNames(), cfg.Markdown.Style)

	if cfg.TUITheme == "" {
		cfg.TUITheme = render.DefaultTUITheme
	}
	tuiThemeCursor := indexOf(render.TUIThemeNames(), cfg.TUITheme)
	ApplyTheme(cfg.TUITheme)

	return ConfigModel{
		config:          cfg,
		configDir:       configDir,
		save:            save,
		view:            viewMain,
		modelCursor:     modelCursor,
		themeCursor:     themeCursor,
		tuiThemeCursor:  tuiThemeCursor,
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// listLen returns the number of entries in the current view
func (m ConfigModel) listLen() int {
	switch m.view {
	case viewModelSelect:
		return len(models.AllModels())
	case viewThemeSelect:
		return len(render.StyleNames())
	case viewTUIThemeSelect:
		return len(render.TUIThemeNames())
	}
	return menuItemCount
}

// cursorPtr returns the cursor of the current view
func (m *ConfigModel) cursorPtr() *int {
	switch m.view {
	case viewModelSelect:
		return &m.modelCursor
	case viewThemeSelect:
		return &m.themeCursor
	case viewTUIThemeSelect:
		return &m.tuiThemeCursor
	}
	return &m.cursor
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			c := m.cursorPtr()
			*c = (*c - 1 + m.listLen()) % m.listLen()

		case "down", "j":
			c := m.cursorPtr()
			*c = (*c + 1) % m.listLen()

		case "left", "h":
			return m.adjust(-1)

		case "right", "l":
			return m.adjust(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// adjust steps the numeric settings on the main menu
func (m ConfigModel) adjust(delta int) (tea.Model, tea.Cmd) {
	if m.view != viewMain {
		return m, nil
	}
	switch m.cursor {
	case menuTemperature:
		m.config.Temperature = models.SnapTemperature(m.config.Temperature + float64(delta)*models.TemperatureStep)
		return m.persist(fmt.Sprintf("Temperature set to %.1f", m.config.Temperature))
	case menuMaxTokens:
		m.config.MaxTokens = models.SnapMaxTokens(m.config.MaxTokens + delta*models.MaxTokensStep)
		return m.persist(fmt.Sprintf("Max tokens set to %d", m.config.MaxTokens))
	}
	return m, nil
}

// persist saves the configuration and reports the outcome
func (m ConfigModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func toggleState(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuDefaultModel:
			m.view = viewModelSelect
		case menuTemperature, menuMaxTokens:
			return m.adjust(1)
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m.persist("Verbose logging " + toggleState(m.config.Verbose))
		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist("Copy to clipboard " + toggleState(m.config.CopyToClipboard))
		case menuTheme:
			m.view = viewThemeSelect
		case menuTUITheme:
			m.view = viewTUIThemeSelect
		case menuExit:
			return m, tea.Quit
		}
		return m, nil

	case viewModelSelect:
		m.config.DefaultModel = models.AllModels()[m.modelCursor].ID
		m.view = viewMain
		return m.persist("Default model set to " + m.config.DefaultModel)

	case viewThemeSelect:
		m.config.Markdown.Style = render.StyleNames()[m.themeCursor]
		m.view = viewMain
		return m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		m.config.TUITheme = render.TUIThemeNames()[m.tuiThemeCursor]
		ApplyTheme(m.config.TUITheme)
		m.view = viewMain
		return m.persist("TUI theme set to " + m.config.TUITheme)
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))
	sections = append(sections, header)

	// PATHS
	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config: %s", configPathStyle.Render(filepath.Join(m.configDir, "config.json"))),
		fmt.Sprintf("   Log:    %s", configPathStyle.Render(filepath.Join(m.configDir, logging.LogFileName))),
		hintStyle.Render("   The API key is never stored; use --api-key or GROQ_API_KEY"),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(pathsContent))

	// SETTINGS
	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu()
	case viewModelSelect:
		settingsContent = m.renderModelSelect()
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settingsContent = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one main-menu row
func (m ConfigModel) menuLine(index int, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if m.cursor == index {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(fmt.Sprintf("%-20s", label)) + value
}

func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("⚙ Settings"),
		"",
		m.menuLine(menuDefaultModel, "Default Model", configValueStyle.Render(m.config.DefaultModel)),
		m.menuLine(menuTemperature, "Temperature",
			renderSlider(m.config.Temperature, models.MinTemperature, models.MaxTemperature, 16)+
				configValueStyle.Render(fmt.Sprintf(" %.1f", m.config.Temperature))),
		m.menuLine(menuMaxTokens, "Max Tokens",
			renderSlider(float64(m.config.MaxTokens), models.MinMaxTokens, models.MaxMaxTokens, 16)+
				configValueStyle.Render(fmt.Sprintf(" %d", m.config.MaxTokens))),
		m.menuLine(menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		m.menuLine(menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(menuTheme, "Markdown Theme", configValueStyle.Render(m.config.Markdown.Style)),
		m.menuLine(menuTUITheme, "TUI Theme", configValueStyle.Render(m.config.TUITheme)),
		"",
		m.menuLine(menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderChoices renders a sub-menu list with the current value marked
func renderChoices(title string, labels []string, current string, names []string, cursor int) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, label := range labels {
		prefix := "  "
		style := configMenuItemStyle
		if cursor == i {
			prefix = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}
		mark := ""
		if names[i] == current {
			mark = configStatusOkStyle.Render(" (current)")
		}
		items = append(items, prefix+style.Render(label)+mark)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) renderModelSelect() string {
	all := models.AllModels()
	labels := make([]string, len(all))
	for i, model := range all {
		labels[i] = fmt.Sprintf("%s - %s", model.ID, model.Description)
	}
	return renderChoices("🤖 Select Default Model", labels, m.config.DefaultModel, models.ModelIDs(), m.modelCursor)
}

func (m ConfigModel) renderThemeSelect() string {
	styles := render.AvailableStyles()
	labels := make([]string, len(styles))
	for i, s := range styles {
		labels[i] = fmt.Sprintf("%s - %s", s.Name, s.Description)
	}
	return renderChoices("🎨 Select Markdown Theme", labels, m.config.Markdown.Style, render.StyleNames(), m.themeCursor)
}

func (m ConfigModel) renderTUIThemeSelect() string {
	themes := render.AvailableTUIThemes()
	labels := make([]string, len(themes))
	for i, t := range themes {
		labels[i] = fmt.Sprintf("%s - %s", t.Name, t.Description)
	}
	return renderChoices("🎨 Select TUI Theme", labels, m.config.TUITheme, render.TUIThemeNames(), m.tuiThemeCursor)
}

func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"←→", "Adjust"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(
		NewConfigModel(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
