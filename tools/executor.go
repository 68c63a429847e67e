// ABOUTME: Tool executor for completion-model function calls
// ABOUTME: Closed dispatch table keeping schemas and handlers in lockstep
package tools

import (
	"database/sql"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

// Request is the tagged union of supported tool invocations. The
// completion model emits untyped argument bags; ParseRequest validates
// them into one of these before anything touches the database.
type Request interface {
	Confirmation() string
	isToolRequest()
}

// UpdateLeadStatus moves the first lead whose company name contains
// Company (case-insensitively) to Stage.
type UpdateLeadStatus struct {
	Company string
	Stage   string
}

func (UpdateLeadStatus) isToolRequest() {}

func (r UpdateLeadStatus) Confirmation() string {
	return fmt.Sprintf("D'accord, je passe %s à l'étape « %s ».", r.Company, r.Stage)
}

// CreateTeamNotification posts a notification to the team feed.
type CreateTeamNotification struct {
	Type    string
	Title   string
	Message string
}

func (CreateTeamNotification) isToolRequest() {}

func (r CreateTeamNotification) Confirmation() string {
	return fmt.Sprintf("C'est noté, je préviens l'équipe : « %s ».", r.Title)
}

// tool couples a schema with its parser so one cannot be registered
// without the other. Execute dispatches on the parsed type, so a
// parser without a handler fails the type switch in tests immediately.
type tool struct {
	definition openai.Tool
	parse      func(args map[string]any) (Request, error)
}

var registry = map[string]tool{
	"update_lead_status": {
		definition: openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "update_lead_status",
				Description: "Move a pipeline lead to another stage. The company name may be partial.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"company": map[string]any{
							"type":        "string",
							"description": "Company name of the lead (partial match allowed)",
						},
						"stage": map[string]any{
							"type":        "string",
							"enum":        models.Stages,
							"description": "Target pipeline stage",
						},
					},
					"required": []string{"company", "stage"},
				},
			},
		},
		parse: parseUpdateLeadStatus,
	},
	"create_team_notification": {
		definition: openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "create_team_notification",
				Description: "Post a notification to the agency team feed.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []string{models.NotificationInfo, models.NotificationSuccess, models.NotificationWarning, models.NotificationError},
						},
						"title":   map[string]any{"type": "string"},
						"message": map[string]any{"type": "string"},
					},
					"required": []string{"title"},
				},
			},
		},
		parse: parseCreateTeamNotification,
	},
}

// Definitions returns the schemas declared to the completion model.
func Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(registry))
	for _, name := range []string{"update_lead_status", "create_team_notification"} {
		defs = append(defs, registry[name].definition)
	}
	return defs
}

// ParseRequest validates an argument bag against the named tool.
// Unknown names and missing required fields fail closed.
func ParseRequest(name string, args map[string]any) (Request, error) {
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t.parse(args)
}

func parseUpdateLeadStatus(args map[string]any) (Request, error) {
	company, _ := args["company"].(string)
	if company == "" {
		return nil, fmt.Errorf("update_lead_status: company is required")
	}

	stage, _ := args["stage"].(string)
	if stage == "" {
		return nil, fmt.Errorf("update_lead_status: stage is required")
	}
	if !models.ValidStage(stage) {
		return nil, fmt.Errorf("update_lead_status: invalid stage %q (valid: %v)", stage, models.Stages)
	}

	return UpdateLeadStatus{Company: company, Stage: stage}, nil
}

func parseCreateTeamNotification(args map[string]any) (Request, error) {
	title, _ := args["title"].(string)
	if title == "" {
		return nil, fmt.Errorf("create_team_notification: title is required")
	}

	typ, _ := args["type"].(string)
	if typ == "" {
		typ = models.NotificationInfo
	}
	if !models.ValidNotificationType(typ) {
		return nil, fmt.Errorf("create_team_notification: invalid type %q", typ)
	}

	message, _ := args["message"].(string)

	return CreateTeamNotification{Type: typ, Title: title, Message: message}, nil
}

// Executor performs exactly one backend mutation per request.
type Executor struct {
	db *sql.DB
}

func NewExecutor(database *sql.DB) *Executor {
	return &Executor{db: database}
}

// Execute runs the request and returns a human-readable result.
func (e *Executor) Execute(req Request) (string, error) {
	switch r := req.(type) {
	case UpdateLeadStatus:
		lead, err := db.FindLeadByCompany(e.db, r.Company)
		if err != nil {
			return "", fmt.Errorf("lead lookup failed: %w", err)
		}
		if lead == nil {
			return "", fmt.Errorf("no lead matching company %q", r.Company)
		}

		previous := lead.Stage
		if err := db.UpdateLeadStage(e.db, lead.ID, r.Stage); err != nil {
			return "", fmt.Errorf("stage update failed: %w", err)
		}
		if err := db.LogActivity(e.db, lead.ID, "stage_changed", fmt.Sprintf("%s -> %s (assistant)", previous, r.Stage)); err != nil {
			return "", fmt.Errorf("activity log failed: %w", err)
		}

		return fmt.Sprintf("%s moved from %s to %s", lead.Company, previous, r.Stage), nil

	case CreateTeamNotification:
		n := &models.Notification{Type: r.Type, Title: r.Title, Message: r.Message}
		if err := db.CreateNotification(e.db, n); err != nil {
			return "", fmt.Errorf("notification failed: %w", err)
		}
		return fmt.Sprintf("notification %s created", n.ID), nil

	default:
		return "", fmt.Errorf("no handler for request type %T", req)
	}
}
