// ABOUTME: Tests for lead database operations
// ABOUTME: Covers CRUD, stage updates, fuzzy company lookup, and activity log
package db

import (
	"testing"

	"github.com/tlemaire/pilotage/models"
)

func TestCreateLead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{
		Company:     "Acme",
		Contact:     "Jean Dupont",
		Email:       "jean@acme.fr",
		Value:       5000,
		Stage:       models.StageNew,
		Score:       50,
		Probability: 50,
	}

	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if lead.ID == "" {
		t.Error("Lead ID was not set")
	}

	if lead.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestCreateLeadReplacesSyntheticID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{
		ID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV", // mapper-assigned ULID
		Company: "Acme",
		Contact: "Jean Dupont",
	}

	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if lead.ID == "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Error("Synthetic ID should be replaced by a backend-assigned one")
	}
}

func TestCreateLeadDefaultsStage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Company: "Acme", Contact: "Jean"}
	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	if lead.Stage != models.StageNew {
		t.Errorf("Expected stage %s, got %s", models.StageNew, lead.Stage)
	}
}

func TestUpdateLeadStage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Company: "Acme", Contact: "Jean", Stage: models.StageNew}
	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if err := UpdateLeadStage(db, lead.ID, models.StageProposal); err != nil {
		t.Fatalf("UpdateLeadStage failed: %v", err)
	}

	found, err := GetLead(db, lead.ID)
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if found.Stage != models.StageProposal {
		t.Errorf("Expected stage %s, got %s", models.StageProposal, found.Stage)
	}
}

func TestGetLeadNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	found, err := GetLead(db, "missing")
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if found != nil {
		t.Error("Expected nil for missing lead")
	}
}

func TestFindLeadByCompany(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Company: "Maison Bleue SARL", Contact: "Sophie"}
	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	found, err := FindLeadByCompany(db, "maison bleue")
	if err != nil {
		t.Fatalf("FindLeadByCompany failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected a match on case-insensitive substring")
	}
	if found.ID != lead.ID {
		t.Errorf("Expected lead %s, got %s", lead.ID, found.ID)
	}

	none, err := FindLeadByCompany(db, "globex")
	if err != nil {
		t.Fatalf("FindLeadByCompany failed: %v", err)
	}
	if none != nil {
		t.Error("Expected no match for unknown company")
	}
}

func TestDeleteLead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Company: "Acme", Contact: "Jean"}
	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if err := DeleteLead(db, lead.ID); err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}

	found, err := GetLead(db, lead.ID)
	if err != nil {
		t.Fatalf("GetLead failed: %v", err)
	}
	if found != nil {
		t.Error("Lead was not deleted")
	}
}

func TestLeadActivityLog(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lead := &models.Lead{Company: "Acme", Contact: "Jean"}
	if err := CreateLead(db, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	if err := LogActivity(db, lead.ID, "stage_changed", "new -> qualified"); err != nil {
		t.Fatalf("LogActivity failed: %v", err)
	}

	entries, err := GetLeadActivity(db, lead.ID)
	if err != nil {
		t.Fatalf("GetLeadActivity failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 activity entry, got %d", len(entries))
	}
	if entries[0].Action != "stage_changed" {
		t.Error("Activity action mismatch")
	}
}
