// ABOUTME: CSV import orchestration against the database
// ABOUTME: Parse, map, persist; empty imports report zero rows, not errors
package importer

import (
	"database/sql"
	"fmt"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

// ImportCSV parses and maps the raw text, then persists every row.
// The insert is awaited, so synthetic mapper ids never leave this
// function: each returned lead carries its backend-assigned id.
func ImportCSV(database *sql.DB, text string) ([]models.Lead, error) {
	rows := ParseCSV(text)
	if len(rows) == 0 {
		return nil, nil
	}

	leads := make([]models.Lead, 0, len(rows))
	for i, row := range rows {
		lead := MapRow(row)

		if err := db.CreateLead(database, &lead); err != nil {
			return leads, fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := db.LogActivity(database, lead.ID, "imported", "CSV import"); err != nil {
			return leads, fmt.Errorf("row %d: %w", i+1, err)
		}

		leads = append(leads, lead)
	}

	return leads, nil
}
