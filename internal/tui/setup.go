package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shantheone/dstui/internal/config"
	pkgtui "github.com/shantheone/dstui/pkg/tui"
)

// setup form field order.
const (
	fieldURL = iota
	fieldPort
	fieldUsername
	fieldPassword
	fieldInterval
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Server URL",
	"Port",
	"Username",
	"Password",
	"Refresh interval (s)",
}

// setupModel is the first-run connection form. Enter advances through
// the fields and submits on the last one; esc aborts.
type setupModel struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	errMsg  string
	done    bool
	aborted bool
}

func newSetupModel() *setupModel {
	m := &setupModel{}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = "> "
		m.inputs[i] = in
	}
	m.inputs[fieldURL].Placeholder = "http://192.168.1.10"
	m.inputs[fieldPort].Placeholder = "5000"
	m.inputs[fieldInterval].Placeholder = "5"
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '*'
	m.inputs[fieldURL].Focus()
	return m
}

func (m *setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.aborted = true
		return m, tea.Quit

	case tea.KeyEnter:
		if msg := m.validateField(m.focus); msg != "" {
			m.errMsg = msg
			return m, nil
		}
		m.errMsg = ""
		if m.focus == fieldCount-1 {
			m.done = true
			return m, tea.Quit
		}
		m.inputs[m.focus].Blur()
		m.focus++
		m.inputs[m.focus].Focus()
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % fieldCount
		m.inputs[m.focus].Focus()
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m.inputs[m.focus].Focus()
		return m, nil
	}

	// Numeric fields only take digits.
	if m.focus == fieldPort || m.focus == fieldInterval {
		if key.Type == tea.KeyRunes && !allDigits(key.Runes) {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m *setupModel) validateField(field int) string {
	value := strings.TrimSpace(m.inputs[field].Value())
	switch field {
	case fieldURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return "server URL must start with http:// or https://"
		}
	case fieldPort:
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return "port must be between 1 and 65535"
		}
	case fieldUsername:
		if value == "" {
			return "username must not be empty"
		}
	case fieldPassword:
		if m.inputs[field].Value() == "" {
			return "password must not be empty"
		}
	case fieldInterval:
		interval, err := strconv.Atoi(value)
		if err != nil || interval < 1 {
			return "refresh interval must be at least 1 second"
		}
	}
	return ""
}

func (m *setupModel) View() string {
	var b strings.Builder
	b.WriteString(pkgtui.TitleStyle.Render("dstui first-time setup"))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			b.WriteString(pkgtui.HelpKeyStyle.Render(padRight(label, 22)))
		} else {
			b.WriteString(pkgtui.LabelStyle.Render(padRight(label, 22)))
		}
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(pkgtui.StatusError.Render(m.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(pkgtui.HelpDescStyle.Render("enter: next  tab: switch field  esc: abort"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *setupModel) toConfig() *config.AppConfig {
	port, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldPort].Value()))
	interval, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldInterval].Value()))
	return &config.AppConfig{
		ServerURL:       strings.TrimSpace(m.inputs[fieldURL].Value()),
		Port:            port,
		Username:        strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Password:        m.inputs[fieldPassword].Value(),
		RefreshInterval: interval,
	}
}

// RunSetup shows the connection form and returns the entered config.
// aborted is true when the user backed out with esc.
func RunSetup() (cfg *config.AppConfig, aborted bool, err error) {
	model := newSetupModel()
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, false, fmt.Errorf("running setup: %w", err)
	}
	m, ok := final.(*setupModel)
	if !ok || m.aborted || !m.done {
		return nil, true, nil
	}
	return m.toConfig(), false, nil
}
