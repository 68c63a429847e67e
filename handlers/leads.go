// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements create_lead, find_leads, update_lead_stage, delete_lead, import_leads
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/importer"
	"github.com/tlemaire/pilotage/models"
)

type LeadHandlers struct {
	db *sql.DB
}

func NewLeadHandlers(database *sql.DB) *LeadHandlers {
	return &LeadHandlers{db: database}
}

type CreateLeadInput struct {
	Company     string `json:"company" jsonschema:"Company name (required)"`
	Contact     string `json:"contact,omitempty" jsonschema:"Contact person name"`
	Email       string `json:"email,omitempty" jsonschema:"Contact email"`
	Phone       string `json:"phone,omitempty" jsonschema:"Contact phone"`
	Value       int64  `json:"value,omitempty" jsonschema:"Estimated deal value in euros"`
	Stage       string `json:"stage,omitempty" jsonschema:"Pipeline stage: new, qualified, proposal, negotiation, won, lost"`
	Source      string `json:"source,omitempty" jsonschema:"Acquisition source"`
	Probability int    `json:"probability,omitempty" jsonschema:"Close probability 0-100 (default 50)"`
	Owner       string `json:"owner,omitempty" jsonschema:"Owning team member"`
	NextStep    string `json:"next_step,omitempty" jsonschema:"Planned next step"`
}

type LeadOutput struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Contact     string `json:"contact,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Value       int64  `json:"value"`
	Stage       string `json:"stage"`
	Score       int    `json:"score"`
	Source      string `json:"source,omitempty"`
	Probability int    `json:"probability"`
	Owner       string `json:"owner,omitempty"`
	NextStep    string `json:"next_step,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func leadOutput(lead *models.Lead) LeadOutput {
	return LeadOutput{
		ID:          lead.ID,
		Company:     lead.Company,
		Contact:     lead.Contact,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Value:       lead.Value,
		Stage:       lead.Stage,
		Score:       lead.Score,
		Source:      lead.Source,
		Probability: lead.Probability,
		Owner:       lead.Owner,
		NextStep:    lead.NextStep,
		CreatedAt:   lead.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   lead.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *LeadHandlers) CreateLead(_ context.Context, request *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.Company == "" {
		return nil, LeadOutput{}, fmt.Errorf("company is required")
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageNew
	}
	if !models.ValidStage(stage) {
		return nil, LeadOutput{}, fmt.Errorf("invalid stage: %s (valid: %s)", stage, strings.Join(models.Stages, ", "))
	}

	// Manually entered leads start warmer than imported ones.
	probability := input.Probability
	if probability == 0 {
		probability = 50
	}

	lead := &models.Lead{
		Company:     input.Company,
		Contact:     input.Contact,
		Email:       input.Email,
		Phone:       input.Phone,
		Value:       input.Value,
		Stage:       stage,
		Score:       50,
		Source:      input.Source,
		Probability: probability,
		Owner:       input.Owner,
		NextStep:    input.NextStep,
	}

	if err := db.CreateLead(h.db, lead); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}
	if err := db.LogActivity(h.db, lead.ID, "created", "via mcp"); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	return nil, leadOutput(lead), nil
}

type FindLeadsInput struct {
	Company string `json:"company,omitempty" jsonschema:"Company name fragment to match"`
	Stage   string `json:"stage,omitempty" jsonschema:"Filter by pipeline stage"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum results (default 50)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
	Count int          `json:"count"`
}

func (h *LeadHandlers) FindLeads(_ context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	if input.Stage != "" && !models.ValidStage(input.Stage) {
		return nil, FindLeadsOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	leads, err := db.ListLeads(h.db, input.Stage, limit)
	if err != nil {
		return nil, FindLeadsOutput{}, fmt.Errorf("failed to list leads: %w", err)
	}

	output := FindLeadsOutput{Leads: []LeadOutput{}}
	needle := strings.ToLower(input.Company)
	for i := range leads {
		if needle != "" && !strings.Contains(strings.ToLower(leads[i].Company), needle) {
			continue
		}
		output.Leads = append(output.Leads, leadOutput(&leads[i]))
	}
	output.Count = len(output.Leads)

	return nil, output, nil
}

type UpdateLeadStageInput struct {
	Company string `json:"company" jsonschema:"Company name fragment identifying the lead (required)"`
	Stage   string `json:"stage" jsonschema:"New pipeline stage: new, qualified, proposal, negotiation, won, lost (required)"`
}

func (h *LeadHandlers) UpdateLeadStage(_ context.Context, request *mcp.CallToolRequest, input UpdateLeadStageInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.Company == "" {
		return nil, LeadOutput{}, fmt.Errorf("company is required")
	}
	if !models.ValidStage(input.Stage) {
		return nil, LeadOutput{}, fmt.Errorf("invalid stage: %s (valid: %s)", input.Stage, strings.Join(models.Stages, ", "))
	}

	lead, err := db.FindLeadByCompany(h.db, input.Company)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to lookup lead: %w", err)
	}
	if lead == nil {
		return nil, LeadOutput{}, fmt.Errorf("no lead matching company %q", input.Company)
	}

	if err := db.UpdateLeadStage(h.db, lead.ID, input.Stage); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update stage: %w", err)
	}
	if err := db.LogActivity(h.db, lead.ID, "stage_changed", fmt.Sprintf("%s -> %s", lead.Stage, input.Stage)); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}

	lead.Stage = input.Stage
	return nil, leadOutput(lead), nil
}

type DeleteLeadInput struct {
	ID string `json:"id" jsonschema:"Lead id (required)"`
}

type DeleteLeadOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

func (h *LeadHandlers) DeleteLead(_ context.Context, request *mcp.CallToolRequest, input DeleteLeadInput) (*mcp.CallToolResult, DeleteLeadOutput, error) {
	if input.ID == "" {
		return nil, DeleteLeadOutput{}, fmt.Errorf("id is required")
	}

	lead, err := db.GetLead(h.db, input.ID)
	if err != nil {
		return nil, DeleteLeadOutput{}, fmt.Errorf("failed to lookup lead: %w", err)
	}
	if lead == nil {
		return nil, DeleteLeadOutput{}, fmt.Errorf("lead not found: %s", input.ID)
	}

	if err := db.DeleteLead(h.db, input.ID); err != nil {
		return nil, DeleteLeadOutput{}, fmt.Errorf("failed to delete lead: %w", err)
	}

	return nil, DeleteLeadOutput{Deleted: true, ID: input.ID}, nil
}

type ImportLeadsInput struct {
	CSV string `json:"csv" jsonschema:"Raw CSV text with a header row (required)"`
}

type ImportLeadsOutput struct {
	Imported int          `json:"imported"`
	Leads    []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) ImportLeads(_ context.Context, request *mcp.CallToolRequest, input ImportLeadsInput) (*mcp.CallToolResult, ImportLeadsOutput, error) {
	if input.CSV == "" {
		return nil, ImportLeadsOutput{}, fmt.Errorf("csv is required")
	}

	leads, err := importer.ImportCSV(h.db, input.CSV)
	if err != nil {
		return nil, ImportLeadsOutput{}, fmt.Errorf("import failed: %w", err)
	}

	output := ImportLeadsOutput{Imported: len(leads), Leads: []LeadOutput{}}
	for i := range leads {
		output.Leads = append(output.Leads, leadOutput(&leads[i]))
	}

	return nil, output, nil
}
