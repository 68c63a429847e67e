// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the dashboard and funnel graph generation
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/tlemaire/pilotage/viz"
)

// VizDashboardCommand renders the ASCII dashboard.
func VizDashboardCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := viz.GenerateDashboardStats(db)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// VizFunnelCommand generates the pipeline funnel graph.
func VizFunnelCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz funnel", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(db)
	dot, err := generator.GenerateFunnelGraph()
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
