// ABOUTME: Lead HTTP endpoints
// ABOUTME: CRUD, stage patch, CSV import, activity, and strategy generation
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tlemaire/pilotage/ai"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/importer"
	"github.com/tlemaire/pilotage/models"
)

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage != "" && !models.ValidStage(stage) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid stage: %s", stage))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	leads, err := db.ListLeads(s.db, stage, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	respondJSON(w, http.StatusOK, leads)
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var lead models.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if lead.Company == "" {
		respondError(w, http.StatusBadRequest, "company is required")
		return
	}
	if lead.Stage != "" && !models.ValidStage(lead.Stage) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid stage: %s", lead.Stage))
		return
	}

	// Form-entered leads start at even odds.
	if lead.Probability == 0 {
		lead.Probability = 50
	}
	if lead.Score == 0 {
		lead.Score = 50
	}

	if err := db.CreateLead(s.db, &lead); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}
	if err := db.LogActivity(s.db, lead.ID, "created", "via api"); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log activity")
		return
	}

	s.publish("leads", "insert", lead.ID, lead)
	respondJSON(w, http.StatusCreated, lead)
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	lead, err := db.GetLead(s.db, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch lead")
		return
	}
	if lead == nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) updateLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := db.GetLead(s.db, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch lead")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	var lead models.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if lead.Stage != "" && !models.ValidStage(lead.Stage) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid stage: %s", lead.Stage))
		return
	}

	lead.ID = id
	lead.CreatedAt = existing.CreatedAt
	if err := db.UpdateLead(s.db, &lead); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}
	if err := db.LogActivity(s.db, id, "updated", "via api"); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log activity")
		return
	}

	s.publish("leads", "update", id, lead)
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) updateLeadStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !models.ValidStage(body.Stage) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid stage: %s (valid: %s)", body.Stage, strings.Join(models.Stages, ", ")))
		return
	}

	lead, err := db.GetLead(s.db, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch lead")
		return
	}
	if lead == nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	if err := db.UpdateLeadStage(s.db, id, body.Stage); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update stage")
		return
	}
	if err := db.LogActivity(s.db, id, "stage_changed", fmt.Sprintf("%s -> %s", lead.Stage, body.Stage)); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log activity")
		return
	}

	lead.Stage = body.Stage
	s.publish("leads", "update", id, lead)
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := db.GetLead(s.db, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch lead")
		return
	}
	if lead == nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	if err := db.DeleteLead(s.db, id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete lead")
		return
	}

	s.publish("leads", "delete", id, nil)
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) importLeads(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CSV string `json:"csv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.CSV == "" {
		respondError(w, http.StatusBadRequest, "csv is required")
		return
	}

	leads, err := importer.ImportCSV(s.db, body.CSV)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	for i := range leads {
		s.publish("leads", "insert", leads[i].ID, leads[i])
	}

	respondJSON(w, http.StatusCreated, map[string]any{"imported": len(leads), "leads": leads})
}

func (s *Server) getLeadActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := db.GetLeadActivity(s.db, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch activity")
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) generateLeadStrategy(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "ai assistant not configured")
		return
	}

	lead, err := db.GetLead(s.db, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch lead")
		return
	}
	if lead == nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	text, err := s.assistant.GenerateContent(r.Context(), userEmail(r), ai.BuildLeadStrategyPrompt(lead))
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"strategy": text})
}
