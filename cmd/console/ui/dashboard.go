package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardMsg struct {
	Resp *dto.DashboardResponse
	Err  error
}

type actionDoneMsg struct {
	Info string
	Err  error
}

// CommandSelectedMsg asks the root model to open the command form for a
// client.
type CommandSelectedMsg struct {
	ClientID string
}

type DashboardModel struct {
	API     *API
	Table   table.Model
	Clients []dto.DashboardClient
	Stats   dto.DashboardStats
	Info    string
	Err     error
}

func NewDashboardModel(api *API, width, height int) DashboardModel {
	columns := []table.Column{
		{Title: "Client ID", Width: 24},
		{Title: "Hostname", Width: 20},
		{Title: "Platform", Width: 10},
		{Title: "Last seen", Width: 20},
		{Title: "Heartbeats", Width: 10},
		{Title: "State", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 5)),
	)

	sStyle := table.DefaultStyles()
	sStyle.Header = sStyle.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	sStyle.Selected = sStyle.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(sStyle)

	return DashboardModel{API: api, Table: t}
}

func (m DashboardModel) Refresh() tea.Cmd {
	api := m.API
	return func() tea.Msg {
		resp, err := api.Dashboard()
		return dashboardMsg{Resp: resp, Err: err}
	}
}

func (m DashboardModel) selectedClientID() string {
	row := m.Table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m DashboardModel) block(action string) tea.Cmd {
	id := m.selectedClientID()
	if id == "" {
		return nil
	}
	api := m.API
	return func() tea.Msg {
		if err := api.Block(id, action); err != nil {
			return actionDoneMsg{Err: err}
		}
		return actionDoneMsg{Info: fmt.Sprintf("client %s %sed", id, action)}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.Refresh()
		case "b":
			return m, m.block("block")
		case "u":
			return m, m.block("unblock")
		case "c":
			if id := m.selectedClientID(); id != "" {
				return m, func() tea.Msg { return CommandSelectedMsg{ClientID: id} }
			}
		case "q":
			return m, tea.Quit
		}

	case dashboardMsg:
		m.Err = msg.Err
		if msg.Err == nil && msg.Resp != nil {
			m.Clients = msg.Resp.Clients
			m.Stats = msg.Resp.Stats
			rows := make([]table.Row, 0, len(m.Clients))
			for _, c := range m.Clients {
				state := "offline"
				if !c.Active {
					state = "blocked"
				} else if seen, err := time.Parse(time.RFC3339, c.LastSeen); err == nil && time.Since(seen) <= 10*time.Minute {
					state = "online"
				}
				rows = append(rows, table.Row{
					c.ClientID, c.Hostname, c.Platform, c.LastSeen,
					fmt.Sprintf("%d", c.HeartbeatCount), state,
				})
			}
			m.Table.SetRows(rows)
		}

	case actionDoneMsg:
		m.Err = msg.Err
		m.Info = msg.Info
		if msg.Err == nil {
			return m, m.Refresh()
		}
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Fleet Dashboard") + "\n\n")
	b.WriteString(statStyle(fmt.Sprintf("total %d · active %d · offline %d · blocked %d",
		m.Stats.TotalClients, m.Stats.ActiveClients, m.Stats.OfflineClients, m.Stats.BlockedClients)))
	b.WriteString("\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("r refresh · b block · u unblock · c send command · q quit"))
	if m.Info != "" {
		b.WriteString("\n" + statStyle(m.Info))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
