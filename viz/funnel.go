// ABOUTME: Pipeline funnel graph generation
// ABOUTME: Renders the stage-to-stage flow as graphviz DOT
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GenerateFunnelGraph renders the pipeline as a left-to-right funnel,
// one node per stage labelled with count and value.
func (g *GraphGenerator) GenerateFunnelGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)

	leads, err := db.ListLeads(g.db, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch leads: %w", err)
	}

	counts := make(map[string]int)
	values := make(map[string]int64)
	for _, lead := range leads {
		counts[lead.Stage]++
		values[lead.Stage] += lead.Value
	}

	nodes := make(map[string]*cgraph.Node)
	for _, stage := range models.Stages {
		node, err := graph.CreateNodeByName(stage)
		if err != nil {
			return "", fmt.Errorf("failed to create node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d leads\n%d €", stage, counts[stage], values[stage]))
		node.SetShape("box")
		nodes[stage] = node
	}

	// Funnel flow: the open stages chain forward, then split won/lost.
	flow := []struct{ from, to string }{
		{models.StageNew, models.StageQualified},
		{models.StageQualified, models.StageProposal},
		{models.StageProposal, models.StageNegotiation},
		{models.StageNegotiation, models.StageWon},
		{models.StageNegotiation, models.StageLost},
	}
	for _, edge := range flow {
		if _, err := graph.CreateEdgeByName("", nodes[edge.from], nodes[edge.to]); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
