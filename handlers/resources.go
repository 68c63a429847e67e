// ABOUTME: MCP resource handlers exposing agency data read-only
// ABOUTME: Leads, clients, pipeline rollup, and notifications via crm:// URIs
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/pipeline"
)

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	path := strings.TrimPrefix(uri, "crm://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "leads":
		if len(parts) == 1 {
			return h.readAllLeads()
		}
		return h.readLead(parts[1])

	case "clients":
		if len(parts) == 1 {
			return h.readAllClients()
		}
		return h.readClient(parts[1])

	case "pipeline":
		return h.readPipeline()

	case "notifications":
		return h.readNotifications()

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) readAllLeads() (*mcp.ReadResourceResult, error) {
	leads, err := db.ListLeads(h.db, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	return jsonResource("crm://leads", leads)
}

func (h *ResourceHandlers) readLead(id string) (*mcp.ReadResourceResult, error) {
	lead, err := db.GetLead(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("lead not found: %s", id)
	}
	return jsonResource(fmt.Sprintf("crm://leads/%s", id), lead)
}

func (h *ResourceHandlers) readAllClients() (*mcp.ReadResourceResult, error) {
	clients, err := db.ListClients(h.db, 1000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	return jsonResource("crm://clients", clients)
}

func (h *ResourceHandlers) readClient(slug string) (*mcp.ReadResourceResult, error) {
	client, err := db.GetClientBySlug(h.db, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client not found: %s", slug)
	}
	return jsonResource(fmt.Sprintf("crm://clients/%s", slug), client)
}

func (h *ResourceHandlers) readPipeline() (*mcp.ReadResourceResult, error) {
	leads, err := db.ListLeads(h.db, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	rollup := struct {
		KPIs      pipeline.KPIs  `json:"kpis"`
		TabCounts map[string]int `json:"tab_counts"`
	}{
		KPIs:      pipeline.ComputeKPIs(leads),
		TabCounts: pipeline.TabCounts(leads),
	}

	return jsonResource("crm://pipeline", rollup)
}

func (h *ResourceHandlers) readNotifications() (*mcp.ReadResourceResult, error) {
	notifications, err := db.ListNotifications(h.db, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return jsonResource("crm://notifications", notifications)
}
