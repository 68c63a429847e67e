// ABOUTME: Tests for lead MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	return database
}

func TestCreateLead(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewLeadHandlers(database)

	_, output, err := handler.CreateLead(context.Background(), nil, CreateLeadInput{
		Company: "Acme Corp",
		Contact: "Jean Dupont",
		Value:   15000,
		Source:  "Google Ads",
	})
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if output.ID == "" {
		t.Error("ID was not set")
	}
	if output.Stage != models.StageNew {
		t.Errorf("Expected stage 'new', got %s", output.Stage)
	}
	if output.Probability != 50 {
		t.Errorf("Expected default probability 50, got %d", output.Probability)
	}

	// Activity row recorded
	entries, err := db.GetLeadActivity(database, output.ID)
	if err != nil {
		t.Fatalf("GetLeadActivity failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "created" {
		t.Errorf("Expected one 'created' activity entry, got %v", entries)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewLeadHandlers(database)

	if _, _, err := handler.CreateLead(context.Background(), nil, CreateLeadInput{}); err == nil {
		t.Error("Expected error for missing company")
	}

	_, _, err := handler.CreateLead(context.Background(), nil, CreateLeadInput{
		Company: "Acme",
		Stage:   "archived",
	})
	if err == nil {
		t.Error("Expected error for invalid stage")
	}
}

func TestUpdateLeadStage(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	lead := &models.Lead{Company: "Globex Industries", Stage: models.StageQualified}
	if err := db.CreateLead(database, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	handler := NewLeadHandlers(database)

	_, output, err := handler.UpdateLeadStage(context.Background(), nil, UpdateLeadStageInput{
		Company: "globex",
		Stage:   models.StageWon,
	})
	if err != nil {
		t.Fatalf("UpdateLeadStage failed: %v", err)
	}
	if output.Stage != models.StageWon {
		t.Errorf("Expected stage 'won', got %s", output.Stage)
	}

	stored, err := db.GetLead(database, lead.ID)
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if stored.Stage != models.StageWon {
		t.Errorf("Stage not persisted, got %s", stored.Stage)
	}
}

func TestUpdateLeadStageNoMatch(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewLeadHandlers(database)

	_, _, err := handler.UpdateLeadStage(context.Background(), nil, UpdateLeadStageInput{
		Company: "Nonexistent",
		Stage:   models.StageWon,
	})
	if err == nil {
		t.Error("Expected error for unmatched company")
	}
}

func TestFindLeads(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	for _, company := range []string{"Acme Corp", "Acme Labs", "Globex"} {
		if err := db.CreateLead(database, &models.Lead{Company: company}); err != nil {
			t.Fatalf("CreateLead failed: %v", err)
		}
	}

	handler := NewLeadHandlers(database)

	_, output, err := handler.FindLeads(context.Background(), nil, FindLeadsInput{Company: "acme"})
	if err != nil {
		t.Fatalf("FindLeads failed: %v", err)
	}
	if output.Count != 2 {
		t.Errorf("Expected 2 matches, got %d", output.Count)
	}
}

func TestDeleteLead(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	lead := &models.Lead{Company: "Acme"}
	if err := db.CreateLead(database, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	handler := NewLeadHandlers(database)

	_, output, err := handler.DeleteLead(context.Background(), nil, DeleteLeadInput{ID: lead.ID})
	if err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}
	if !output.Deleted {
		t.Error("Expected deleted=true")
	}

	stored, err := db.GetLead(database, lead.ID)
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if stored != nil {
		t.Error("Lead still present after delete")
	}
}

func TestImportLeads(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewLeadHandlers(database)

	csv := "Entreprise;Contact;Valeur\nAcme;Jean;5000\nGlobex;Marie;8000\n"
	_, output, err := handler.ImportLeads(context.Background(), nil, ImportLeadsInput{CSV: csv})
	if err != nil {
		t.Fatalf("ImportLeads failed: %v", err)
	}
	if output.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", output.Imported)
	}
	for _, lead := range output.Leads {
		if lead.Probability != 30 {
			t.Errorf("Expected imported probability 30, got %d", lead.Probability)
		}
	}
}
