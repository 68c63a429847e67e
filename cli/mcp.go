// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for assistant integration on stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tlemaire/pilotage/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting agency CRM MCP server...")

	leadHandlers := handlers.NewLeadHandlers(db)
	clientHandlers := handlers.NewClientHandlers(db)
	notificationHandlers := handlers.NewNotificationHandlers(db)
	queryHandlers := handlers.NewQueryHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pilotage",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Add a new lead to the sales pipeline",
	}, leadHandlers.CreateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search leads by company name fragment and stage",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead_stage",
		Description: "Move a lead to a new pipeline stage, matched by company name",
	}, leadHandlers.UpdateLeadStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead by id",
	}, leadHandlers.DeleteLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_leads",
		Description: "Import leads from raw CSV text with a header row",
	}, leadHandlers.ImportLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_client",
		Description: "Create a client engagement record",
	}, clientHandlers.CreateClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_clients",
		Description: "List client engagements",
	}, clientHandlers.FindClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_client",
		Description: "Update a client's status, progress, or project by slug",
	}, clientHandlers.UpdateClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_cahier",
		Description: "Save or complete a client's intake questionnaire",
	}, clientHandlers.SaveCahier)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cahier",
		Description: "Fetch a client's intake questionnaire by slug",
	}, clientHandlers.GetCahier)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_notification",
		Description: "Post a notification to the team feed",
	}, notificationHandlers.CreateNotification)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_notifications",
		Description: "List recent team notifications with unread count",
	}, notificationHandlers.ListNotifications)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_stats",
		Description: "Pipeline KPIs with per-stage breakdown and source tab counts",
	}, queryHandlers.PipelineStats)

	// Register prompts
	promptHandlers := handlers.NewPromptHandlers(db)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-analysis",
		Description: "Analyze pipeline health and suggest priority actions",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "lead-strategy",
		Description: "Closing strategy for one lead",
		Arguments: []*mcp.PromptArgument{
			{Name: "company", Description: "Company name fragment", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "cahier-generation",
		Description: "Site-generation prompt from a client's questionnaire",
		Arguments: []*mcp.PromptArgument{
			{Name: "slug", Description: "Client slug", Required: true},
		},
	}, promptHandlers.GetPrompt)

	// Register resources
	resourceHandlers := handlers.NewResourceHandlers(db)

	for _, resource := range []*mcp.Resource{
		{URI: "crm://leads", Name: "leads", Description: "All pipeline leads", MIMEType: "application/json"},
		{URI: "crm://clients", Name: "clients", Description: "All client engagements", MIMEType: "application/json"},
		{URI: "crm://pipeline", Name: "pipeline", Description: "Pipeline KPI rollup", MIMEType: "application/json"},
		{URI: "crm://notifications", Name: "notifications", Description: "Team notification feed", MIMEType: "application/json"},
	} {
		server.AddResource(resource, resourceHandlers.ReadResource)
	}

	log.Println("MCP server ready on stdio")
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
