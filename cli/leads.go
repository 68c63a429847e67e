// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for managing the pipeline
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/importer"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

// AddLeadCommand adds a new lead.
func AddLeadCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	company := fs.String("company", "", "Company name (required)")
	contact := fs.String("contact", "", "Contact person")
	email := fs.String("email", "", "Contact email")
	phone := fs.String("phone", "", "Contact phone")
	value := fs.Int64("value", 0, "Estimated value in euros")
	stage := fs.String("stage", "new", "Stage (new, qualified, proposal, negotiation, won, lost)")
	source := fs.String("source", "", "Acquisition source")
	owner := fs.String("owner", "", "Owning team member")
	_ = fs.Parse(args)

	if *company == "" {
		return fmt.Errorf("--company is required")
	}
	if !models.ValidStage(*stage) {
		return fmt.Errorf("invalid stage: %s (valid: %s)", *stage, strings.Join(models.Stages, ", "))
	}

	lead := &models.Lead{
		Company:     *company,
		Contact:     *contact,
		Email:       *email,
		Phone:       *phone,
		Value:       *value,
		Stage:       *stage,
		Score:       50,
		Source:      *source,
		Probability: 50,
		Owner:       *owner,
	}

	if err := db.CreateLead(database, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	if err := db.LogActivity(database, lead.ID, "created", "via cli"); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("✓ Lead created: %s (ID: %s)\n", lead.Company, lead.ID)
	fmt.Printf("  Stage: %s\n", lead.Stage)
	if lead.Value > 0 {
		fmt.Printf("  Value: %d €\n", lead.Value)
	}

	return nil
}

// ListLeadsCommand lists leads, optionally filtered by stage.
func ListLeadsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *stage != "" && !models.ValidStage(*stage) {
		return fmt.Errorf("invalid stage: %s", *stage)
	}

	leads, err := db.ListLeads(database, *stage, *limit)
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tCONTACT\tSTAGE\tVALUE\tPROB\tSOURCE")
	for _, lead := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d €\t%d%%\t%s\n",
			lead.Company, lead.Contact, lead.Stage, lead.Value, lead.Probability, lead.Source)
	}
	w.Flush()

	fmt.Printf("\n%d lead(s)\n", len(leads))
	return nil
}

// UpdateLeadStageCommand moves a lead to a new stage by company name.
func UpdateLeadStageCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-lead-stage", flag.ExitOnError)
	company := fs.String("company", "", "Company name fragment (required)")
	stage := fs.String("stage", "", "New stage (required)")
	_ = fs.Parse(args)

	if *company == "" {
		return fmt.Errorf("--company is required")
	}
	if !models.ValidStage(*stage) {
		return fmt.Errorf("invalid stage: %s (valid: %s)", *stage, strings.Join(models.Stages, ", "))
	}

	lead, err := db.FindLeadByCompany(database, *company)
	if err != nil {
		return fmt.Errorf("failed to lookup lead: %w", err)
	}
	if lead == nil {
		return fmt.Errorf("no lead matching company %q", *company)
	}

	if err := db.UpdateLeadStage(database, lead.ID, *stage); err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}
	if err := db.LogActivity(database, lead.ID, "stage_changed", fmt.Sprintf("%s -> %s", lead.Stage, *stage)); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Printf("✓ %s: %s -> %s\n", lead.Company, lead.Stage, *stage)
	return nil
}

// ImportLeadsCommand imports leads from a CSV file.
func ImportLeadsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("import-leads", flag.ExitOnError)
	file := fs.String("file", "", "CSV file path (required)")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	leads, err := importer.ImportCSV(database, string(data))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported %d lead(s)\n", len(leads))
	for _, lead := range leads {
		fmt.Printf("  %s (%s)\n", lead.Company, lead.Contact)
	}

	return nil
}

// StatsCommand prints the pipeline rollup.
func StatsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	tab := fs.String("tab", "", "Source tab (all, google, meta, outbound, inbound)")
	assignee := fs.String("assignee", "", "Filter by owner")
	_ = fs.Parse(args)

	leads, err := db.ListLeads(database, "", 0)
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	filtered := pipeline.FilterLeads(leads, pipeline.Filter{Tab: *tab, Assignee: *assignee})
	kpis := pipeline.ComputeKPIs(filtered)

	fmt.Println("Pipeline")
	fmt.Println("========")
	fmt.Printf("Leads:            %d\n", kpis.Count)
	fmt.Printf("Total value:      %d €\n", kpis.TotalValue)
	fmt.Printf("Weighted value:   %.0f €\n", kpis.WeightedValue)
	fmt.Printf("Won:              %d\n", kpis.WonCount)
	fmt.Printf("Avg probability:  %d%%\n", kpis.AvgProbability)

	fmt.Println("\nBy stage:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, stage := range models.Stages {
		count := 0
		var value int64
		for _, lead := range filtered {
			if lead.Stage == stage {
				count++
				value += lead.Value
			}
		}
		fmt.Fprintf(w, "  %s\t%d\t%d €\n", stage, count, value)
	}
	w.Flush()

	return nil
}
