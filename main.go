// ABOUTME: Entry point for the agency CRM server and CLI
// ABOUTME: Routes to API server, MCP server, TUI, or CLI commands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/tlemaire/pilotage/cli"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/tui"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/pilotage/crm.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("pilotage version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", finalDBPath)
		os.Exit(0)
	}

	switch command {
	case "serve":
		if err := cli.ServeCommand(database, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "tui":
		program := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		switch crmCommand {
		// Lead commands
		case "add-lead":
			if err := cli.AddLeadCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-leads":
			if err := cli.ListLeadsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "update-lead-stage":
			if err := cli.UpdateLeadStageCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "import-leads":
			if err := cli.ImportLeadsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "stats":
			if err := cli.StatsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Client commands
		case "add-client":
			if err := cli.AddClientCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-clients":
			if err := cli.ListClientsCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show-cahier":
			if err := cli.ShowCahierCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}

	case "viz":
		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "dashboard":
			if err := cli.VizDashboardCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "funnel":
			if err := cli.VizFunnelCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return db.DefaultPath()
}

func printUsage() {
	fmt.Printf(`pilotage v%s - Agency CRM

USAGE:
  pilotage [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version        Show version and exit
  --db-path PATH   Database path (default: ~/.local/share/pilotage/crm.db)
  --init           Initialize database and exit

COMMANDS:
  serve            Start the HTTP API with websocket push
    --port PORT    Listen port (default $PORT or 8080)

  mcp              Start the MCP server on stdio

  tui              Interactive terminal pipeline board

  crm <subcommand>
    add-lead           --company NAME [--contact --email --phone --value --stage --source --owner]
    list-leads         [--stage STAGE] [--limit N]
    update-lead-stage  --company FRAGMENT --stage STAGE
    import-leads       --file FILE.csv
    stats              [--tab TAB] [--assignee NAME]
    add-client         --name NAME [--project --plan --email]
    list-clients       [--limit N]
    show-cahier        --slug SLUG

  viz <subcommand>
    dashboard      ASCII pipeline dashboard
    funnel         Pipeline funnel graph (DOT)

ENVIRONMENT:
  GEMINI_API_KEY   Shared AI key (workspace keys in settings take priority)
  CRM_DB_PATH      Overrides the default database location
  PORT             API listen port for serve
`, version)
}
