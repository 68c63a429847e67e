// ABOUTME: Stats, notification, SOP, integration, and AI log endpoints
// ABOUTME: The settings and dashboard surfaces of the API
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/pipeline"
)

func (s *Server) pipelineStats(w http.ResponseWriter, r *http.Request) {
	leads, err := db.ListLeads(s.db, "", 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	q := r.URL.Query()
	filter := pipeline.Filter{
		Query:    q.Get("q"),
		Assignee: q.Get("assignee"),
		Source:   q.Get("source"),
		Tab:      q.Get("tab"),
	}
	filtered := pipeline.FilterLeads(leads, filter)

	respondJSON(w, http.StatusOK, map[string]any{
		"kpis": pipeline.ComputeKPIs(filtered),
		// Badges always reflect the whole collection.
		"tab_counts": pipeline.TabCounts(leads),
	})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := db.ListNotifications(s.db, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) createNotification(w http.ResponseWriter, r *http.Request) {
	var notification models.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if notification.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if notification.Type != "" && !models.ValidNotificationType(notification.Type) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid type: %s", notification.Type))
		return
	}

	if err := db.CreateNotification(s.db, &notification); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}

	s.publish("notifications", "insert", notification.ID, notification)
	respondJSON(w, http.StatusCreated, notification)
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := db.MarkNotificationRead(s.db, id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to mark notification")
		return
	}
	s.publish("notifications", "update", id, map[string]any{"id": id, "read": true})
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "read": true})
}

func (s *Server) listSOPs(w http.ResponseWriter, r *http.Request) {
	sops, err := db.ListSOPs(s.db, r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sops")
		return
	}
	if sops == nil {
		sops = []models.SOP{}
	}
	respondJSON(w, http.StatusOK, sops)
}

func (s *Server) createSOP(w http.ResponseWriter, r *http.Request) {
	var sop models.SOP
	if err := json.NewDecoder(r.Body).Decode(&sop); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if sop.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := db.CreateSOP(s.db, &sop); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create sop")
		return
	}

	s.publish("sops", "insert", sop.ID, sop)
	respondJSON(w, http.StatusCreated, sop)
}

func (s *Server) getSOP(w http.ResponseWriter, r *http.Request) {
	sop, err := db.GetSOP(s.db, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch sop")
		return
	}
	if sop == nil {
		respondError(w, http.StatusNotFound, "sop not found")
		return
	}
	respondJSON(w, http.StatusOK, sop)
}

func (s *Server) updateSOP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := db.GetSOP(s.db, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch sop")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "sop not found")
		return
	}

	var sop models.SOP
	if err := json.NewDecoder(r.Body).Decode(&sop); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	sop.ID = id
	sop.CreatedAt = existing.CreatedAt
	if err := db.UpdateSOP(s.db, &sop); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update sop")
		return
	}

	s.publish("sops", "update", id, sop)
	respondJSON(w, http.StatusOK, sop)
}

func (s *Server) deleteSOP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := db.DeleteSOP(s.db, id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete sop")
		return
	}
	s.publish("sops", "delete", id, nil)
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) listIntegrations(w http.ResponseWriter, r *http.Request) {
	integrations, err := db.ListIntegrations(s.db)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list integrations")
		return
	}
	if integrations == nil {
		integrations = []models.Integration{}
	}

	// API keys never leave the backend; only their presence does.
	for i := range integrations {
		if _, ok := integrations[i].Config["api_key"]; ok {
			integrations[i].Config["api_key"] = "configured"
		}
	}

	respondJSON(w, http.StatusOK, integrations)
}

func (s *Server) saveIntegration(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var integration models.Integration
	if err := json.NewDecoder(r.Body).Decode(&integration); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	integration.Slug = slug

	if err := db.SaveIntegration(s.db, &integration); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save integration")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"slug": slug, "connected": integration.Connected})
}

func (s *Server) listAILogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := db.ListAILogs(s.db, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list ai logs")
		return
	}
	if logs == nil {
		logs = []models.AILog{}
	}
	respondJSON(w, http.StatusOK, logs)
}
