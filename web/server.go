// ABOUTME: HTTP API server wiring and shared response helpers
// ABOUTME: chi router with CORS, JSON endpoints, and the websocket upgrade
package web

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/tlemaire/pilotage/ai"
	"github.com/tlemaire/pilotage/realtime"
	"github.com/tlemaire/pilotage/tools"
)

// Server holds the API dependencies. The assistant may be nil when no
// API key is configured; AI endpoints then answer 503.
type Server struct {
	db        *sql.DB
	hub       *realtime.Hub
	assistant *ai.Assistant
	executor  *tools.Executor
}

func NewServer(database *sql.DB, hub *realtime.Hub, assistant *ai.Assistant) *Server {
	return &Server{
		db:        database,
		hub:       hub,
		assistant: assistant,
		executor:  tools.NewExecutor(database),
	}
}

// Router builds the full route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-User-Email"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.listLeads)
			r.Post("/", s.createLead)
			r.Post("/import", s.importLeads)
			r.Get("/{id}", s.getLead)
			r.Put("/{id}", s.updateLead)
			r.Delete("/{id}", s.deleteLead)
			r.Patch("/{id}/stage", s.updateLeadStage)
			r.Get("/{id}/activity", s.getLeadActivity)
			r.Post("/{id}/strategy", s.generateLeadStrategy)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.listClients)
			r.Post("/", s.createClient)
			r.Get("/{slug}", s.getClient)
			r.Put("/{slug}", s.updateClient)
			r.Delete("/{slug}", s.deleteClient)
			r.Get("/{slug}/cahier", s.getCahier)
			r.Put("/{slug}/cahier", s.saveCahier)
			r.Post("/{slug}/generate", s.generateClientPrompt)
		})

		r.Get("/stats", s.pipelineStats)
		r.Post("/chat", s.chat)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/", s.createNotification)
			r.Patch("/{id}/read", s.markNotificationRead)
		})

		r.Route("/sops", func(r chi.Router) {
			r.Get("/", s.listSOPs)
			r.Post("/", s.createSOP)
			r.Get("/{id}", s.getSOP)
			r.Put("/{id}", s.updateSOP)
			r.Delete("/{id}", s.deleteSOP)
		})

		r.Route("/integrations", func(r chi.Router) {
			r.Get("/", s.listIntegrations)
			r.Put("/{slug}", s.saveIntegration)
		})

		r.Get("/ai/logs", s.listAILogs)

		r.Post("/webhooks/meta", s.metaWebhook)
	})

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(s.hub, w, r)
	})

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode failed: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// publish fans a change event out when a hub is attached.
func (s *Server) publish(table, op, id string, row any) {
	if s.hub != nil {
		s.hub.Publish(realtime.NewChangeEvent(table, op, id, row))
	}
}

// userEmail identifies the caller for AI logging. Single-tenant app,
// so this is informational, not authentication.
func userEmail(r *http.Request) string {
	return r.Header.Get("X-User-Email")
}
