// ABOUTME: Tests for client and cahier MCP tool handlers
// ABOUTME: Validates slug routing, progress bounds, and completion flag
package handlers

import (
	"context"
	"testing"

	"github.com/tlemaire/pilotage/db"
)

func TestCreateAndFindClients(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewClientHandlers(database)

	_, created, err := handler.CreateClient(context.Background(), nil, CreateClientInput{
		Name:    "Boulangerie Martin",
		Project: "Site vitrine",
	})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if created.Slug == "" {
		t.Error("Slug was not assigned")
	}

	_, list, err := handler.FindClients(context.Background(), nil, FindClientsInput{})
	if err != nil {
		t.Fatalf("FindClients failed: %v", err)
	}
	if list.Count != 1 {
		t.Errorf("Expected 1 client, got %d", list.Count)
	}
}

func TestUpdateClientProgressBounds(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewClientHandlers(database)

	_, created, err := handler.CreateClient(context.Background(), nil, CreateClientInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	bad := 150
	_, _, err = handler.UpdateClient(context.Background(), nil, UpdateClientInput{
		Slug:     created.Slug,
		Progress: &bad,
	})
	if err == nil {
		t.Error("Expected error for out-of-range progress")
	}

	good := 60
	_, updated, err := handler.UpdateClient(context.Background(), nil, UpdateClientInput{
		Slug:     created.Slug,
		Progress: &good,
		Status:   "en cours",
	})
	if err != nil {
		t.Fatalf("UpdateClient failed: %v", err)
	}
	if updated.Progress != 60 || updated.Status != "en cours" {
		t.Errorf("Update not applied: %+v", updated)
	}
}

func TestSaveCahierCompletionFlipsFlag(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewClientHandlers(database)

	_, created, err := handler.CreateClient(context.Background(), nil, CreateClientInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	// Draft save does not complete
	_, draft, err := handler.SaveCahier(context.Background(), nil, SaveCahierInput{
		Slug:     created.Slug,
		Activity: "boulangerie artisanale",
	})
	if err != nil {
		t.Fatalf("SaveCahier failed: %v", err)
	}
	if draft.Completed {
		t.Error("Draft save should not be completed")
	}

	client, err := db.GetClientBySlug(database, created.Slug)
	if err != nil {
		t.Fatalf("GetClientBySlug failed: %v", err)
	}
	if client.CahierDone {
		t.Error("cahier_done should still be false")
	}

	// Completing flips the client flag
	_, done, err := handler.SaveCahier(context.Background(), nil, SaveCahierInput{
		Slug:     created.Slug,
		Activity: "boulangerie artisanale",
		Features: []string{"click and collect"},
		Complete: true,
	})
	if err != nil {
		t.Fatalf("SaveCahier failed: %v", err)
	}
	if !done.Completed {
		t.Error("Expected completed cahier")
	}

	client, err = db.GetClientBySlug(database, created.Slug)
	if err != nil {
		t.Fatalf("GetClientBySlug failed: %v", err)
	}
	if !client.CahierDone {
		t.Error("cahier_done was not flipped")
	}

	_, fetched, err := handler.GetCahier(context.Background(), nil, GetCahierInput{Slug: created.Slug})
	if err != nil {
		t.Fatalf("GetCahier failed: %v", err)
	}
	if len(fetched.Features) != 1 {
		t.Errorf("Expected 1 feature, got %d", len(fetched.Features))
	}
}

func TestSaveCahierUnknownClient(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewClientHandlers(database)

	_, _, err := handler.SaveCahier(context.Background(), nil, SaveCahierInput{Slug: "nope"})
	if err == nil {
		t.Error("Expected error for unknown client")
	}
}
