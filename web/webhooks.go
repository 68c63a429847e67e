// ABOUTME: Inbound webhook endpoints
// ABOUTME: Meta lead-form payloads become pipeline leads and a notification
package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/importer"
	"github.com/tlemaire/pilotage/models"
)

func (s *Server) metaWebhook(w http.ResponseWriter, r *http.Request) {
	var payload importer.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	lead := importer.MapWebhookLead(payload)
	if err := db.CreateLead(s.db, &lead); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}
	if err := db.LogActivity(s.db, lead.ID, "imported", "meta webhook"); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to log activity")
		return
	}

	notification := &models.Notification{
		Type:    models.NotificationInfo,
		Title:   "Nouveau lead Facebook",
		Message: fmt.Sprintf("%s (%s)", lead.Company, lead.Contact),
	}
	if err := db.CreateNotification(s.db, notification); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create notification")
		return
	}

	s.publish("leads", "insert", lead.ID, lead)
	s.publish("notifications", "insert", notification.ID, notification)

	respondJSON(w, http.StatusCreated, lead)
}
