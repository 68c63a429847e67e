// ABOUTME: Client and intake questionnaire MCP tool handlers
// ABOUTME: Implements create_client, find_clients, update_client, save_cahier
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

type ClientHandlers struct {
	db *sql.DB
}

func NewClientHandlers(database *sql.DB) *ClientHandlers {
	return &ClientHandlers{db: database}
}

type CreateClientInput struct {
	Name    string `json:"name" jsonschema:"Client name (required)"`
	Project string `json:"project,omitempty" jsonschema:"Project description"`
	Status  string `json:"status,omitempty" jsonschema:"Engagement status"`
	Plan    string `json:"plan,omitempty" jsonschema:"Subscribed plan"`
	Email   string `json:"email,omitempty" jsonschema:"Client email"`
	Phone   string `json:"phone,omitempty" jsonschema:"Client phone"`
}

type ClientOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Project    string `json:"project,omitempty"`
	Status     string `json:"status,omitempty"`
	Progress   int    `json:"progress"`
	Plan       string `json:"plan,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Slug       string `json:"slug"`
	CahierDone bool   `json:"cahier_done"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func clientOutput(client *models.Client) ClientOutput {
	return ClientOutput{
		ID:         client.ID,
		Name:       client.Name,
		Project:    client.Project,
		Status:     client.Status,
		Progress:   client.Progress,
		Plan:       client.Plan,
		Email:      client.Email,
		Phone:      client.Phone,
		Slug:       client.Slug,
		CahierDone: client.CahierDone,
		CreatedAt:  client.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  client.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *ClientHandlers) CreateClient(_ context.Context, request *mcp.CallToolRequest, input CreateClientInput) (*mcp.CallToolResult, ClientOutput, error) {
	if input.Name == "" {
		return nil, ClientOutput{}, fmt.Errorf("name is required")
	}

	client := &models.Client{
		Name:    input.Name,
		Project: input.Project,
		Status:  input.Status,
		Plan:    input.Plan,
		Email:   input.Email,
		Phone:   input.Phone,
	}

	if err := db.CreateClient(h.db, client); err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}

	return nil, clientOutput(client), nil
}

type FindClientsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindClientsOutput struct {
	Clients []ClientOutput `json:"clients"`
	Count   int            `json:"count"`
}

func (h *ClientHandlers) FindClients(_ context.Context, request *mcp.CallToolRequest, input FindClientsInput) (*mcp.CallToolResult, FindClientsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	clients, err := db.ListClients(h.db, limit)
	if err != nil {
		return nil, FindClientsOutput{}, fmt.Errorf("failed to list clients: %w", err)
	}

	output := FindClientsOutput{Clients: []ClientOutput{}}
	for i := range clients {
		output.Clients = append(output.Clients, clientOutput(&clients[i]))
	}
	output.Count = len(output.Clients)

	return nil, output, nil
}

type UpdateClientInput struct {
	Slug     string `json:"slug" jsonschema:"Client slug (required)"`
	Status   string `json:"status,omitempty" jsonschema:"New engagement status"`
	Progress *int   `json:"progress,omitempty" jsonschema:"Project progress 0-100"`
	Project  string `json:"project,omitempty" jsonschema:"Updated project description"`
}

func (h *ClientHandlers) UpdateClient(_ context.Context, request *mcp.CallToolRequest, input UpdateClientInput) (*mcp.CallToolResult, ClientOutput, error) {
	if input.Slug == "" {
		return nil, ClientOutput{}, fmt.Errorf("slug is required")
	}

	client, err := db.GetClientBySlug(h.db, input.Slug)
	if err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to lookup client: %w", err)
	}
	if client == nil {
		return nil, ClientOutput{}, fmt.Errorf("client not found: %s", input.Slug)
	}

	if input.Status != "" {
		client.Status = input.Status
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, ClientOutput{}, fmt.Errorf("progress must be between 0 and 100")
		}
		client.Progress = *input.Progress
	}
	if input.Project != "" {
		client.Project = input.Project
	}

	if err := db.UpdateClient(h.db, client); err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to update client: %w", err)
	}

	return nil, clientOutput(client), nil
}

type SaveCahierInput struct {
	Slug     string   `json:"slug" jsonschema:"Client slug (required)"`
	Company  string   `json:"company,omitempty" jsonschema:"Company name"`
	Activity string   `json:"activity,omitempty" jsonschema:"Business activity"`
	Style    string   `json:"style,omitempty" jsonschema:"Desired visual style"`
	Budget   string   `json:"budget,omitempty" jsonschema:"Budget range"`
	Deadline string   `json:"deadline,omitempty" jsonschema:"Delivery deadline"`
	Features []string `json:"features,omitempty" jsonschema:"Requested features"`
	Complete bool     `json:"complete,omitempty" jsonschema:"Mark the questionnaire as completed"`
}

type CahierOutput struct {
	ClientSlug string   `json:"client_slug"`
	Company    string   `json:"company,omitempty"`
	Activity   string   `json:"activity,omitempty"`
	Style      string   `json:"style,omitempty"`
	Budget     string   `json:"budget,omitempty"`
	Deadline   string   `json:"deadline,omitempty"`
	Features   []string `json:"features,omitempty"`
	Completed  bool     `json:"completed"`
}

func cahierOutput(cahier *models.Cahier) CahierOutput {
	return CahierOutput{
		ClientSlug: cahier.ClientSlug,
		Company:    cahier.Company,
		Activity:   cahier.Activity,
		Style:      cahier.Style,
		Budget:     cahier.Budget,
		Deadline:   cahier.Deadline,
		Features:   cahier.Features,
		Completed:  cahier.CompletedAt != nil,
	}
}

// SaveCahier upserts the questionnaire. Completing it also flips the
// client's cahier_done flag in the same transaction.
func (h *ClientHandlers) SaveCahier(_ context.Context, request *mcp.CallToolRequest, input SaveCahierInput) (*mcp.CallToolResult, CahierOutput, error) {
	if input.Slug == "" {
		return nil, CahierOutput{}, fmt.Errorf("slug is required")
	}

	client, err := db.GetClientBySlug(h.db, input.Slug)
	if err != nil {
		return nil, CahierOutput{}, fmt.Errorf("failed to lookup client: %w", err)
	}
	if client == nil {
		return nil, CahierOutput{}, fmt.Errorf("client not found: %s", input.Slug)
	}

	cahier := &models.Cahier{
		ClientSlug: input.Slug,
		Company:    input.Company,
		Activity:   input.Activity,
		Style:      input.Style,
		Budget:     input.Budget,
		Deadline:   input.Deadline,
		Features:   input.Features,
	}
	if input.Complete {
		now := time.Now()
		cahier.CompletedAt = &now
	}

	if err := db.SaveCahier(h.db, cahier); err != nil {
		return nil, CahierOutput{}, fmt.Errorf("failed to save cahier: %w", err)
	}

	return nil, cahierOutput(cahier), nil
}

type GetCahierInput struct {
	Slug string `json:"slug" jsonschema:"Client slug (required)"`
}

func (h *ClientHandlers) GetCahier(_ context.Context, request *mcp.CallToolRequest, input GetCahierInput) (*mcp.CallToolResult, CahierOutput, error) {
	if input.Slug == "" {
		return nil, CahierOutput{}, fmt.Errorf("slug is required")
	}

	cahier, err := db.GetCahier(h.db, input.Slug)
	if err != nil {
		return nil, CahierOutput{}, fmt.Errorf("failed to fetch cahier: %w", err)
	}
	if cahier == nil {
		return nil, CahierOutput{}, fmt.Errorf("no cahier for client: %s", input.Slug)
	}

	return nil, cahierOutput(cahier), nil
}
