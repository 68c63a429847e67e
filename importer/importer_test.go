// ABOUTME: End-to-end CSV import tests against a real database
// ABOUTME: Covers the 3-row mixed-quality import scenario
package importer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestImportCSVMixedRows(t *testing.T) {
	database := setupTestDB(t)

	csv := "Entreprise,Email,Valeur\n" +
		"\"Dupont, Fils et Cie\",contact@dupont.fr,abc\n" + // quoted comma, unparseable value
		"Acme,jean@acme.fr\n" + // missing Valeur column
		"Globex,b@globex.fr,9000\n" // fully populated

	leads, err := ImportCSV(database, csv)
	require.NoError(t, err)
	require.Len(t, leads, 3)

	assert.Equal(t, "Dupont, Fils et Cie", leads[0].Company)
	assert.Equal(t, int64(0), leads[0].Value)
	assert.Equal(t, int64(0), leads[1].Value)
	assert.Equal(t, int64(9000), leads[2].Value)

	for _, lead := range leads {
		assert.Equal(t, models.StageNew, lead.Stage)
		assert.Equal(t, 50, lead.Score)
		// Backend-assigned UUIDs, not 26-char ULIDs
		assert.Len(t, lead.ID, 36)
	}

	// Persisted with activity trail
	stored, err := db.ListLeads(database, "", 0)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	activity, err := db.GetLeadActivity(database, leads[0].ID)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "imported", activity[0].Action)
}

func TestImportCSVEmptyInput(t *testing.T) {
	database := setupTestDB(t)

	leads, err := ImportCSV(database, "Entreprise,Email,Valeur")
	require.NoError(t, err)
	assert.Empty(t, leads)

	leads, err = ImportCSV(database, "")
	require.NoError(t, err)
	assert.Empty(t, leads)
}
