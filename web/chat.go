// ABOUTME: Assistant chat HTTP endpoint
// ABOUTME: Runs the completion pipeline and executes a pending tool call
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tlemaire/pilotage/ai"
)

type chatRequest struct {
	Message string    `json:"message"`
	History []ai.Turn `json:"history,omitempty"`
}

type chatResponse struct {
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
	ToolCalled string `json:"tool_called,omitempty"`
	ToolResult string `json:"tool_result,omitempty"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		respondError(w, http.StatusServiceUnavailable, "ai assistant not configured")
		return
	}

	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.assistant.Chat(r.Context(), userEmail(r), body.Message, body.History)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	response := chatResponse{Text: reply.Text, Model: reply.Model}

	if reply.Pending != nil {
		result, err := s.executor.Execute(reply.Pending.Request)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		response.ToolCalled = reply.Pending.Name
		response.ToolResult = result
	}

	respondJSON(w, http.StatusOK, response)
}
