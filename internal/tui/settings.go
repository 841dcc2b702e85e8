package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/api"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// Settings panel rows
const (
	fieldAPIKey = iota
	fieldModel
	fieldTemperature
	fieldMaxTokens
	fieldClear
	fieldClose
	fieldCount
)

const sliderWidth = 24

// settingsPanel holds the state of the settings overlay. The values mirror
// the chat session's request config and are written back on every change.
type settingsPanel struct {
	keyInput    textinput.Model
	cursor      int
	modelIdx    int
	temperature float64
	maxTokens   int
	status      string
}

func newSettingsPanel(chat *api.ChatSession) settingsPanel {
	ti := textinput.New()
	ti.Placeholder = "gsk_..."
	ti.Prompt = ""
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 40

	p := settingsPanel{keyInput: ti}
	p.sync(chat)
	return p
}

// sync reloads the panel values from the chat session
func (p *settingsPanel) sync(chat *api.ChatSession) {
	cfg := chat.Config()
	p.modelIdx = models.ModelIndex(cfg.Model)
	p.temperature = cfg.Temperature
	p.maxTokens = cfg.MaxTokens
}

func (m *Model) openSettings() {
	m.showSettings = true
	m.settings.sync(m.chat)
	m.settings.cursor = fieldAPIKey
	m.settings.status = ""
	m.settings.keyInput.Focus()
	m.textarea.Blur()
}

func (m *Model) closeSettings() {
	m.showSettings = false
	m.settings.keyInput.Blur()
	m.settings.keyInput.Reset()
	m.textarea.Focus()
}

// updateSettings handles keys while the settings panel is open
func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.settings

	switch msg.String() {
	case "esc", "ctrl+s":
		m.closeSettings()
		return m, nil

	case "up", "shift+tab":
		m.moveSettingsCursor(-1)
		return m, nil

	case "down", "tab":
		m.moveSettingsCursor(1)
		return m, nil

	case "left", "right", "h", "l", "-", "+":
		if p.cursor != fieldAPIKey {
			delta := 1
			switch msg.String() {
			case "left", "h", "-":
				delta = -1
			}
			m.adjustSetting(delta)
			return m, nil
		}

	case "enter":
		return m.applySetting()
	}

	if p.cursor == fieldAPIKey {
		var cmd tea.Cmd
		p.keyInput, cmd = p.keyInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveSettingsCursor(delta int) {
	p := &m.settings
	p.cursor = (p.cursor + delta + fieldCount) % fieldCount
	if p.cursor == fieldAPIKey {
		p.keyInput.Focus()
	} else {
		p.keyInput.Blur()
	}
}

// adjustSetting steps the selected value and writes it to the session
func (m *Model) adjustSetting(delta int) {
	p := &m.settings
	cfg := m.chat.Config()

	switch p.cursor {
	case fieldModel:
		ids := models.ModelIDs()
		idx := p.modelIdx
		if idx < 0 {
			idx = 0
			if delta > 0 {
				delta = 0
			}
		}
		idx = (idx + delta + len(ids)) % len(ids)
		if err := m.chat.SetModel(ids[idx]); err != nil {
			m.err = err
			return
		}
		p.modelIdx = idx

	case fieldTemperature:
		cfg.Temperature = models.SnapTemperature(cfg.Temperature + float64(delta)*models.TemperatureStep)
		m.chat.SetConfig(cfg)
		p.temperature = m.chat.Config().Temperature

	case fieldMaxTokens:
		cfg.MaxTokens = models.SnapMaxTokens(cfg.MaxTokens + delta*models.MaxTokensStep)
		m.chat.SetConfig(cfg)
		p.maxTokens = m.chat.Config().MaxTokens
	}
}

// applySetting runs the action of the selected row
func (m Model) applySetting() (tea.Model, tea.Cmd) {
	p := &m.settings

	switch p.cursor {
	case fieldAPIKey:
		key := strings.TrimSpace(p.keyInput.Value())
		if key == "" {
			p.status = apierrors.MsgMissingCredential
			return m, nil
		}
		m.chat.Session().SetCredential(key)
		p.keyInput.Reset()
		p.status = "API key saved"
		if apierrors.IsAuthError(m.err) {
			m.err = nil
		}
		m.moveSettingsCursor(1)

	case fieldClear:
		if err := m.chat.Reset(); err != nil {
			p.status = apierrors.UserMessage(err)
			return m, nil
		}
		m.rendered = make(map[renderKey]string)
		m.err = nil
		m.updateViewport()
		p.status = "Chat cleared"

	case fieldClose:
		m.closeSettings()

	default:
		m.moveSettingsCursor(1)
	}
	return m, nil
}

// renderSettings renders the settings overlay
func (m Model) renderSettings(width int) string {
	p := m.settings
	var rows []string

	rows = append(rows, configTitleStyle.Render("⚙ Settings"))

	// API key
	var keyStatus string
	if m.chat.Session().HasCredential() {
		keyStatus = configStatusOkStyle.Render("✓ API key set")
	} else {
		keyStatus = configStatusWarnStyle.Render("⚠ Please enter your Groq API key")
	}
	rows = append(rows,
		m.settingsRow(fieldAPIKey, "API key", p.keyInput.View()),
		"      "+keyStatus,
		"",
	)

	// Model
	cfg := m.chat.Config()
	modelValue := cfg.Model
	desc := ""
	if model, ok := models.ModelFromID(cfg.Model); ok {
		desc = model.Description
	}
	rows = append(rows,
		m.settingsRow(fieldModel, "Model", configValueStyle.Render("‹ "+modelValue+" ›")),
		"      "+hintStyle.Render(desc),
	)

	rows = append(rows,
		m.settingsRow(fieldTemperature, "Temperature",
			renderSlider(p.temperature, models.MinTemperature, models.MaxTemperature, sliderWidth)+
				configValueStyle.Render(fmt.Sprintf(" %.1f", p.temperature))),
		m.settingsRow(fieldMaxTokens, "Max tokens",
			renderSlider(float64(p.maxTokens), models.MinMaxTokens, models.MaxMaxTokens, sliderWidth)+
				configValueStyle.Render(fmt.Sprintf(" %d", p.maxTokens))),
		"",
		m.settingsRow(fieldClear, "Clear chat", ""),
		m.settingsRow(fieldClose, "Close", ""),
	)

	if p.status != "" {
		rows = append(rows, configFeedbackStyle.Render(p.status))
	}

	return settingsPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) settingsRow(field int, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if m.settings.cursor == field {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	return cursor + style.Render(fmt.Sprintf("%-12s", label)) + " " + value
}

// renderSlider draws value on a horizontal track of the given width
func renderSlider(value, lo, hi float64, width int) string {
	if width < 2 {
		width = 2
	}
	pos := 0
	if hi > lo {
		pos = int(math.Round((value - lo) / (hi - lo) * float64(width-1)))
	}
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return sliderFillStyle.Render(strings.Repeat("━", pos)+"●") +
		sliderTrackStyle.Render(strings.Repeat("─", width-1-pos))
}
