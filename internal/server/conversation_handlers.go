package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/models"
	"github.com/wanderbot/wanderbot/internal/storage"
	"github.com/wanderbot/wanderbot/internal/webhook"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	conversations, err := s.storage.ListConversations(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err), zap.String("user_id", userID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to fetch conversations"})
		return
	}
	if conversations == nil {
		conversations = []*models.Conversation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"conversations": conversations,
	})
}

type endConversationRequest struct {
	ConversationID string                   `json:"conversationId"`
	AgentID        string                   `json:"agentId"`
	Transcript     []models.TranscriptEntry `json:"transcript"`
	Summary        string                   `json:"summary"`
	Status         string                   `json:"status"`
}

// handleEndConversation persists a conversation the client ends explicitly.
// Same upsert as the webhook path, so a later delivery for the same
// conversation id refreshes the row instead of duplicating it.
func (s *Server) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var req endConversationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}
	if req.ConversationID == "" || req.AgentID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "conversationId and agentId are required",
		})
		return
	}

	summary := req.Summary
	if summary == "" {
		summary = webhook.SynthesizeSummary(req.Transcript)
	}
	if summary == "" {
		summary = "Conversation completed"
	}

	status := req.Status
	if status == "" {
		status = models.StatusCompleted
	}
	transcript := req.Transcript
	if transcript == nil {
		transcript = []models.TranscriptEntry{}
	}

	conv := &models.Conversation{
		UserID:         userID,
		ConversationID: req.ConversationID,
		AgentID:        req.AgentID,
		Status:         status,
		Transcript:     transcript,
		Analysis:       map[string]any{},
		Summary:        summary,
	}

	if err := s.storage.UpsertConversation(r.Context(), conv); err != nil {
		s.logger.Error("failed to save conversation",
			zap.Error(err),
			zap.String("conversation_id", req.ConversationID),
			zap.String("user_id", userID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to save conversation",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation saved successfully",
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid conversation ID"})
		return
	}

	if err := s.storage.DeleteConversation(r.Context(), id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Conversation not found or unauthorized"})
			return
		}
		s.logger.Error("failed to delete conversation", zap.Error(err), zap.Int64("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to delete conversation"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation deleted successfully",
	})
}
