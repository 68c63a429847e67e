// ABOUTME: Client CLI commands
// ABOUTME: Human-friendly commands for managing signed engagements
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

// AddClientCommand creates a client record.
func AddClientCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-client", flag.ExitOnError)
	name := fs.String("name", "", "Client name (required)")
	project := fs.String("project", "", "Project description")
	plan := fs.String("plan", "", "Subscribed plan")
	email := fs.String("email", "", "Client email")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	client := &models.Client{
		Name:    *name,
		Project: *project,
		Plan:    *plan,
		Email:   *email,
	}

	if err := db.CreateClient(database, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	fmt.Printf("✓ Client created: %s (slug: %s)\n", client.Name, client.Slug)
	return nil
}

// ListClientsCommand lists client engagements.
func ListClientsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-clients", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	clients, err := db.ListClients(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Println("No clients found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSLUG\tPROJECT\tSTATUS\tPROGRESS\tCAHIER")
	for _, client := range clients {
		cahier := "-"
		if client.CahierDone {
			cahier = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			client.Name, client.Slug, client.Project, client.Status, client.Progress, cahier)
	}
	w.Flush()

	fmt.Printf("\n%d client(s)\n", len(clients))
	return nil
}

// ShowCahierCommand prints a client's intake questionnaire.
func ShowCahierCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-cahier", flag.ExitOnError)
	slug := fs.String("slug", "", "Client slug (required)")
	_ = fs.Parse(args)

	if *slug == "" {
		return fmt.Errorf("--slug is required")
	}

	cahier, err := db.GetCahier(database, *slug)
	if err != nil {
		return fmt.Errorf("failed to fetch cahier: %w", err)
	}
	if cahier == nil {
		return fmt.Errorf("no cahier for client: %s", *slug)
	}

	fmt.Printf("Cahier des charges: %s\n", cahier.ClientSlug)
	fmt.Printf("  Entreprise: %s\n", cahier.Company)
	fmt.Printf("  Activité:   %s\n", cahier.Activity)
	fmt.Printf("  Style:      %s\n", cahier.Style)
	fmt.Printf("  Budget:     %s\n", cahier.Budget)
	fmt.Printf("  Échéance:   %s\n", cahier.Deadline)
	if len(cahier.Features) > 0 {
		fmt.Println("  Fonctionnalités:")
		for _, f := range cahier.Features {
			fmt.Printf("    - %s\n", f)
		}
	}
	if cahier.CompletedAt != nil {
		fmt.Printf("  Complété le %s\n", cahier.CompletedAt.Format("2006-01-02"))
	} else {
		fmt.Println("  (brouillon)")
	}

	return nil
}
