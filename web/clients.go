// ABOUTME: Client and cahier HTTP endpoints
// ABOUTME: CRUD by slug, questionnaire save, and AI prompt generation
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tlemaire/pilotage/ai"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := db.ListClients(s.db, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	respondJSON(w, http.StatusOK, clients)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if client.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := db.CreateClient(s.db, &client); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	s.publish("clients", "insert", client.ID, client)
	respondJSON(w, http.StatusCreated, client)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	client, err := db.GetClientBySlug(s.db, chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch client")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	existing, err := db.GetClientBySlug(s.db, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch client")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if client.Progress < 0 || client.Progress > 100 {
		respondError(w, http.StatusBadRequest, "progress must be between 0 and 100")
		return
	}

	client.ID = existing.ID
	client.Slug = existing.Slug
	client.CreatedAt = existing.CreatedAt
	if err := db.UpdateClient(s.db, &client); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	s.publish("clients", "update", client.ID, client)
	respondJSON(w, http.StatusOK, client)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	client, err := db.GetClientBySlug(s.db, chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch client")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}

	if err := db.DeleteClient(s.db, client.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}

	s.publish("clients", "delete", client.ID, nil)
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": client.ID})
}

func (s *Server) getCahier(w http.ResponseWriter, r *http.Request) {
	cahier, err := db.GetCahier(s.db, chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch cahier")
		return
	}
	if cahier == nil {
		respondError(w, http.StatusNotFound, "cahier not found")
		return
	}
	respondJSON(w, http.StatusOK, cahier)
}

func (s *Server) saveCahier(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	client, err := db.GetClientBySlug(s.db, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch client")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}

	var body struct {
		models.Cahier
		Complete bool `json:"complete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cahier := body.Cahier
	cahier.ClientSlug = slug
	if body.Complete && cahier.CompletedAt == nil {
		now := time.Now()
		cahier.CompletedAt = &now
	}

	if err := db.SaveCahier(s.db, &cahier); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save cahier")
		return
	}

	s.publish("cahiers", "update", slug, cahier)
	if cahier.CompletedAt != nil {
		// Completion flipped the client flag inside the same tx.
		if updated, err := db.GetClientBySlug(s.db, slug); err == nil && updated != nil {
			s.publish("clients", "update", updated.ID, updated)
		}
	}

	respondJSON(w, http.StatusOK, cahier)
}

// generateClientPrompt builds the site-generation prompt from the
// completed questionnaire and stores it on the client record.
func (s *Server) generateClientPrompt(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "ai assistant not configured")
		return
	}

	slug := chi.URLParam(r, "slug")

	client, err := db.GetClientBySlug(s.db, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch client")
		return
	}
	if client == nil {
		respondError(w, http.StatusNotFound, "client not found")
		return
	}

	cahier, err := db.GetCahier(s.db, slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch cahier")
		return
	}
	if cahier == nil {
		respondError(w, http.StatusBadRequest, "no cahier to generate from")
		return
	}

	text, err := s.assistant.GenerateContent(r.Context(), userEmail(r), ai.BuildCahierPrompt(client, cahier))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	client.GeneratedAI = text
	if err := db.UpdateClient(s.db, client); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store generated prompt")
		return
	}

	s.publish("clients", "update", client.ID, client)
	respondJSON(w, http.StatusOK, map[string]string{"prompt": text})
}
