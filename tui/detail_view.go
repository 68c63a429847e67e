// ABOUTME: Detail view rendering
// ABOUTME: Single lead or client record with its activity trail
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tlemaire/pilotage/db"
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PILOTAGE"))
	s.WriteString("\n\n")

	switch m.entityType {
	case EntityLeads:
		s.WriteString(m.renderLeadDetail())
	case EntityClients:
		s.WriteString(m.renderClientDetail())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc back • q quit"))

	return s.String()
}

func (m Model) renderLeadDetail() string {
	lead, err := db.GetLead(m.db, m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if lead == nil {
		return "Lead not found"
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Company:      %s\n", lead.Company))
	s.WriteString(fmt.Sprintf("Contact:      %s\n", lead.Contact))
	if lead.Email != "" {
		s.WriteString(fmt.Sprintf("Email:        %s\n", lead.Email))
	}
	if lead.Phone != "" {
		s.WriteString(fmt.Sprintf("Phone:        %s\n", lead.Phone))
	}
	s.WriteString(fmt.Sprintf("Stage:        %s\n", lead.Stage))
	s.WriteString(fmt.Sprintf("Value:        %d €\n", lead.Value))
	s.WriteString(fmt.Sprintf("Probability:  %d%%\n", lead.Probability))
	if lead.Source != "" {
		s.WriteString(fmt.Sprintf("Source:       %s\n", lead.Source))
	}
	if lead.NextStep != "" {
		s.WriteString(fmt.Sprintf("Next step:    %s\n", lead.NextStep))
	}

	entries, err := db.GetLeadActivity(m.db, lead.ID)
	if err == nil && len(entries) > 0 {
		s.WriteString("\nActivity:\n")
		for _, e := range entries {
			s.WriteString(fmt.Sprintf("  %s  %s  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.Action, e.Detail))
		}
	}

	return s.String()
}

func (m Model) renderClientDetail() string {
	client, err := db.GetClient(m.db, m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if client == nil {
		return "Client not found"
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Name:      %s\n", client.Name))
	s.WriteString(fmt.Sprintf("Slug:      %s\n", client.Slug))
	s.WriteString(fmt.Sprintf("Project:   %s\n", client.Project))
	s.WriteString(fmt.Sprintf("Status:    %s\n", client.Status))
	s.WriteString(fmt.Sprintf("Progress:  %d%%\n", client.Progress))
	if client.Plan != "" {
		s.WriteString(fmt.Sprintf("Plan:      %s\n", client.Plan))
	}

	cahier, err := db.GetCahier(m.db, client.Slug)
	if err == nil && cahier != nil {
		status := "brouillon"
		if cahier.CompletedAt != nil {
			status = "complété"
		}
		s.WriteString(fmt.Sprintf("Cahier:    %s\n", status))
	}

	return s.String()
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewList
		m.selectedID = ""
	}
	return m, nil
}
