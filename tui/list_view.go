// ABOUTME: List view rendering for the pipeline board
// ABOUTME: Lead and client tables with live search and KPI footer
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PILOTAGE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.entityType == EntityLeads {
		s.WriteString(m.renderKPIFooter())
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Leads", "Clients"}
	var rendered []string

	for i, tab := range tabs {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.entityType {
	case EntityLeads:
		return m.renderLeadsTable()
	case EntityClients:
		return m.renderClientsTable()
	}
	return ""
}

func (m Model) filteredLeads() []models.Lead {
	leads, err := db.ListLeads(m.db, "", 100)
	if err != nil {
		return nil
	}
	return pipeline.FilterLeads(leads, pipeline.Filter{Query: m.searchInput.Value()})
}

func (m Model) renderLeadsTable() string {
	leads := m.filteredLeads()

	columns := []table.Column{
		{Title: "Company", Width: 25},
		{Title: "Contact", Width: 20},
		{Title: "Stage", Width: 12},
		{Title: "Value", Width: 10},
		{Title: "Prob", Width: 6},
	}

	var rows []table.Row
	for _, lead := range leads {
		rows = append(rows, table.Row{
			lead.Company,
			lead.Contact,
			lead.Stage,
			fmt.Sprintf("%d €", lead.Value),
			fmt.Sprintf("%d%%", lead.Probability),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-12),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderClientsTable() string {
	clients, err := db.ListClients(m.db, 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Project", Width: 25},
		{Title: "Status", Width: 12},
		{Title: "Progress", Width: 10},
	}

	var rows []table.Row
	for _, client := range clients {
		rows = append(rows, table.Row{
			client.Name,
			client.Project,
			client.Status,
			fmt.Sprintf("%d%%", client.Progress),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderKPIFooter() string {
	kpis := pipeline.ComputeKPIs(m.filteredLeads())
	return kpiStyle.Render(fmt.Sprintf(
		"%d leads • %d € total • %.0f € weighted • %d won • %d%% avg",
		kpis.Count, kpis.TotalValue, kpis.WeightedValue, kpis.WonCount, kpis.AvgProbability,
	))
}

func (m Model) renderListHelp() string {
	help := []string{"↑/↓ navigate", "tab switch", "/ search", "enter detail", "q quit"}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "tab":
		m.entityType = (m.entityType + 1) % entityCount
		m.selectedRow = 0
	case "/":
		m.searching = true
		m.searchInput.Focus()
	case "enter":
		m.viewMode = ViewDetail
		m.selectedID = m.getSelectedID()
	}

	return m, nil
}

func (m Model) getSelectedID() string {
	switch m.entityType {
	case EntityLeads:
		leads := m.filteredLeads()
		if m.selectedRow < len(leads) {
			return leads[m.selectedRow].ID
		}
	case EntityClients:
		clients, _ := db.ListClients(m.db, 100)
		if m.selectedRow < len(clients) {
			return clients[m.selectedRow].ID
		}
	}
	return ""
}
