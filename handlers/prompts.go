// ABOUTME: MCP prompt handlers for reusable agency workflow templates
// ABOUTME: Pipeline analysis, lead strategy, and cahier generation prompts
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/ai"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "pipeline-analysis":
		return h.getPipelineAnalysisPrompt()
	case "lead-strategy":
		return h.getLeadStrategyPrompt(arguments)
	case "cahier-generation":
		return h.getCahierGenerationPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getPipelineAnalysisPrompt() (*mcp.GetPromptResult, error) {
	leads, err := db.ListLeads(h.db, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	kpis := pipeline.ComputeKPIs(leads)

	var b strings.Builder
	b.WriteString("Analyse l'état du pipeline commercial :\n\n")
	b.WriteString(fmt.Sprintf("Leads actifs : %d\n", kpis.Count))
	b.WriteString(fmt.Sprintf("Valeur totale : %d €\n", kpis.TotalValue))
	b.WriteString(fmt.Sprintf("Valeur pondérée : %.0f €\n", kpis.WeightedValue))
	b.WriteString(fmt.Sprintf("Gagnés : %d\n", kpis.WonCount))
	b.WriteString(fmt.Sprintf("Probabilité moyenne : %d%%\n\n", kpis.AvgProbability))

	b.WriteString("Répartition par étape :\n")
	for _, stage := range models.Stages {
		count := 0
		var value int64
		for _, lead := range leads {
			if lead.Stage == stage {
				count++
				value += lead.Value
			}
		}
		b.WriteString(fmt.Sprintf("  %s : %d leads, %d €\n", stage, count, value))
	}

	b.WriteString("\nIdentifie les goulots d'étranglement et propose trois actions prioritaires.")

	return promptResult("Analyse du pipeline commercial", b.String()), nil
}

func (h *PromptHandlers) getLeadStrategyPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	company, ok := args["company"]
	if !ok || company == "" {
		return nil, fmt.Errorf("company is required")
	}

	lead, err := db.FindLeadByCompany(h.db, company)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("no lead matching company %q", company)
	}

	return promptResult(
		fmt.Sprintf("Stratégie de closing pour %s", lead.Company),
		ai.BuildLeadStrategyPrompt(lead),
	), nil
}

func (h *PromptHandlers) getCahierGenerationPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	slug, ok := args["slug"]
	if !ok || slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	client, err := db.GetClientBySlug(h.db, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client not found: %s", slug)
	}

	cahier, err := db.GetCahier(h.db, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cahier: %w", err)
	}
	if cahier == nil {
		return nil, fmt.Errorf("no cahier for client: %s", slug)
	}

	return promptResult(
		fmt.Sprintf("Prompt de génération pour %s", client.Name),
		ai.BuildCahierPrompt(client, cahier),
	), nil
}
