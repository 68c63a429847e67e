// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII overview of the agency pipeline and clients
package viz

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

type DashboardStats struct {
	PipelineByStage map[string]PipelineStageStats
	KPIs            pipeline.KPIs

	TotalLeads   int
	TotalClients int
	CahiersDone  int

	// Leads untouched for 14+ days
	StaleLeads []StaleLead
}

type PipelineStageStats struct {
	Stage string
	Count int
	Value int64
}

type StaleLead struct {
	Company   string
	DaysSince int
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		PipelineByStage: make(map[string]PipelineStageStats),
	}

	leads, err := db.ListLeads(database, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	for _, lead := range leads {
		stage := lead.Stage
		if stage == "" {
			stage = "unknown"
		}

		pstats := stats.PipelineByStage[stage]
		pstats.Stage = stage
		pstats.Count++
		pstats.Value += lead.Value
		stats.PipelineByStage[stage] = pstats
	}

	stats.TotalLeads = len(leads)
	stats.KPIs = pipeline.ComputeKPIs(leads)

	clients, err := db.ListClients(database, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	stats.TotalClients = len(clients)
	for _, client := range clients {
		if client.CahierDone {
			stats.CahiersDone++
		}
	}

	// Open leads untouched for 14+ days need a follow-up
	now := time.Now()
	for _, lead := range leads {
		if lead.Stage == models.StageWon || lead.Stage == models.StageLost {
			continue
		}
		daysSince := int(now.Sub(lead.UpdatedAt).Hours() / 24)
		if daysSince > 14 {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{
				Company:   lead.Company,
				DaysSince: daysSince,
			})
		}
	}

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  PILOTAGE AGENCY DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📈 %d leads  👥 %d clients  📋 %d cahiers done\n",
		stats.TotalLeads, stats.TotalClients, stats.CahiersDone))
	out.WriteString(fmt.Sprintf("  💰 %d € total, %.0f € weighted, %d%% avg probability\n\n",
		stats.KPIs.TotalValue, stats.KPIs.WeightedValue, stats.KPIs.AvgProbability))

	if len(stats.StaleLeads) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d leads - no activity in 14+ days\n", len(stats.StaleLeads)))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, byStage map[string]PipelineStageStats) {
	maxCount := 0
	for _, pstats := range byStage {
		if pstats.Count > maxCount {
			maxCount = pstats.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, stage := range models.Stages {
		pstats, exists := byStage[stage]
		if !exists {
			continue
		}

		barLength := (pstats.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		valueK := pstats.Value / 1000
		out.WriteString(fmt.Sprintf("  %-12s %s  %2d (%dK €)\n",
			stage, bar, pstats.Count, valueK))
	}
}
