// ABOUTME: Pipeline query MCP tool handlers
// ABOUTME: Implements pipeline_stats with per-stage breakdown and KPIs
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

type QueryHandlers struct {
	db *sql.DB
}

func NewQueryHandlers(database *sql.DB) *QueryHandlers {
	return &QueryHandlers{db: database}
}

type PipelineStatsInput struct {
	Assignee string `json:"assignee,omitempty" jsonschema:"Filter by owning team member"`
	Source   string `json:"source,omitempty" jsonschema:"Filter by acquisition source"`
	Tab      string `json:"tab,omitempty" jsonschema:"Source tab: all, google, meta, outbound, inbound"`
}

type StageStats struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	TotalValue int64   `json:"total_value"`
	Weighted   float64 `json:"weighted_value"`
}

type PipelineStatsOutput struct {
	Count          int            `json:"count"`
	TotalValue     int64          `json:"total_value"`
	WeightedValue  float64        `json:"weighted_value"`
	WonCount       int            `json:"won_count"`
	AvgProbability int            `json:"avg_probability"`
	Stages         []StageStats   `json:"stages"`
	TabCounts      map[string]int `json:"tab_counts"`
}

func (h *QueryHandlers) PipelineStats(_ context.Context, request *mcp.CallToolRequest, input PipelineStatsInput) (*mcp.CallToolResult, PipelineStatsOutput, error) {
	leads, err := db.ListLeads(h.db, "", 0)
	if err != nil {
		return nil, PipelineStatsOutput{}, fmt.Errorf("failed to list leads: %w", err)
	}

	filter := pipeline.Filter{Assignee: input.Assignee, Source: input.Source, Tab: input.Tab}
	filtered := pipeline.FilterLeads(leads, filter)
	kpis := pipeline.ComputeKPIs(filtered)

	output := PipelineStatsOutput{
		Count:          kpis.Count,
		TotalValue:     kpis.TotalValue,
		WeightedValue:  kpis.WeightedValue,
		WonCount:       kpis.WonCount,
		AvgProbability: kpis.AvgProbability,
		// Tab badges always count the full collection, filters or not.
		TabCounts: pipeline.TabCounts(leads),
	}

	for _, stage := range models.Stages {
		stats := StageStats{Stage: stage}
		for _, lead := range filtered {
			if lead.Stage != stage {
				continue
			}
			stats.Count++
			stats.TotalValue += lead.Value
		}
		single := pipeline.ComputeKPIs(stageSlice(filtered, stage))
		stats.Weighted = single.WeightedValue
		output.Stages = append(output.Stages, stats)
	}

	return nil, output, nil
}

func stageSlice(leads []models.Lead, stage string) []models.Lead {
	var out []models.Lead
	for _, lead := range leads {
		if lead.Stage == stage {
			out = append(out, lead)
		}
	}
	return out
}
