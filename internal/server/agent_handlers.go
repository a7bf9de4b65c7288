package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/agent"
)

// handleStartCall asks the provider for a signed conversation URL, carrying
// the caller's user id so the completion webhook can attribute the session.
func (s *Server) handleStartCall(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	signedURL, err := s.agent.SignedURL(r.Context(), userID)
	if err != nil {
		if errors.Is(err, agent.ErrNotConfigured) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "Voice agent is not configured. Set ELEVENLABS_API_KEY and ELEVENLABS_AGENT_ID",
			})
			return
		}
		s.logger.Error("failed to start call", zap.Error(err), zap.String("user_id", userID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to start call"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"signedUrl": signedURL,
	})
}

func (s *Server) handleAgentConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"agentId": s.agent.AgentID(),
		"userId":  userID,
	})
}
