package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// BackToDashboardMsg signals transition back to the dashboard.
type BackToDashboardMsg struct{}

// CommandFormModel collects a command type and an optional JSON payload
// for the selected client.
type CommandFormModel struct {
	API      *API
	ClientID string
	Inputs   []textinput.Model
	Focused  int
	Err      error
}

func NewCommandFormModel(api *API, clientID string) CommandFormModel {
	typeInput := textinput.New()
	typeInput.Placeholder = "command type (e.g. restart, update_config)"
	typeInput.Focus()
	typeInput.CharLimit = 50
	typeInput.Width = 50

	dataInput := textinput.New()
	dataInput.Placeholder = `payload JSON (optional, e.g. {"path":"/tmp"})`
	dataInput.CharLimit = 500
	dataInput.Width = 50

	return CommandFormModel{
		API:      api,
		ClientID: clientID,
		Inputs:   []textinput.Model{typeInput, dataInput},
	}
}

func (m CommandFormModel) submit() tea.Cmd {
	api := m.API
	clientID := m.ClientID
	commandType := strings.TrimSpace(m.Inputs[0].Value())
	data := strings.TrimSpace(m.Inputs[1].Value())
	return func() tea.Msg {
		if err := api.SendCommand(clientID, commandType, data); err != nil {
			return actionDoneMsg{Err: err}
		}
		return actionDoneMsg{Info: fmt.Sprintf("command %q queued for %s", commandType, clientID)}
	}
}

func (m CommandFormModel) Update(msg tea.Msg) (CommandFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return BackToDashboardMsg{} }
		case "tab", "shift+tab":
			m.Inputs[m.Focused].Blur()
			m.Focused = (m.Focused + 1) % len(m.Inputs)
			m.Inputs[m.Focused].Focus()
			return m, nil
		case "enter":
			if m.Focused < len(m.Inputs)-1 {
				m.Inputs[m.Focused].Blur()
				m.Focused++
				m.Inputs[m.Focused].Focus()
				return m, nil
			}
			if strings.TrimSpace(m.Inputs[0].Value()) == "" {
				m.Err = fmt.Errorf("command type is required")
				return m, nil
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.Inputs[m.Focused], cmd = m.Inputs[m.Focused].Update(msg)
	return m, cmd
}

func (m CommandFormModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Send command: "+m.ClientID) + "\n\n")
	for i, in := range m.Inputs {
		if i == m.Focused {
			b.WriteString(focusedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(blurredStyle.Render("enter submit · tab next field · esc cancel"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
