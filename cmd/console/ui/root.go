package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateDashboard state = iota
	stateCommandForm
)

type RootModel struct {
	State     state
	API       *API
	Dashboard DashboardModel
	Form      CommandFormModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(api *API) RootModel {
	return RootModel{
		State:     stateDashboard,
		API:       api,
		Dashboard: NewDashboardModel(api, 100, 24),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Dashboard.Refresh()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Dashboard.Table.SetHeight(max(msg.Height-10, 5))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
	}

	switch m.State {
	case stateDashboard:
		if sel, ok := msg.(CommandSelectedMsg); ok {
			m.State = stateCommandForm
			m.Form = NewCommandFormModel(m.API, sel.ClientID)
			return m, nil
		}
		newDash, cmd := m.Dashboard.Update(msg)
		m.Dashboard = newDash
		return m, cmd

	case stateCommandForm:
		switch msg.(type) {
		case BackToDashboardMsg:
			m.State = stateDashboard
			return m, m.Dashboard.Refresh()
		case actionDoneMsg:
			// command submitted (or failed); surface the result on the
			// dashboard
			m.State = stateDashboard
			newDash, cmd := m.Dashboard.Update(msg)
			m.Dashboard = newDash
			return m, cmd
		}
		newForm, cmd := m.Form.Update(msg)
		m.Form = newForm
		return m, cmd
	}

	return m, nil
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateDashboard:
		return m.Dashboard.View()
	case stateCommandForm:
		return m.Form.View()
	}
	return "Unknown state"
}
