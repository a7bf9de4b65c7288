package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/models"
	"github.com/wanderbot/wanderbot/internal/storage"
)

var validItemTypes = map[string]bool{
	"activity":   true,
	"hotel":      true,
	"restaurant": true,
}

func (s *Server) handleListSavedItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	itemType := r.URL.Query().Get("type")
	items, err := s.storage.ListSavedItems(r.Context(), userID, itemType)
	if err != nil {
		s.logger.Error("failed to list saved items", zap.Error(err), zap.String("user_id", userID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to fetch saved items",
		})
		return
	}
	if items == nil {
		items = []*models.SavedItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    items,
	})
}

type createSavedItemRequest struct {
	ItemType       string         `json:"itemType"`
	ItemData       map[string]any `json:"itemData"`
	ConversationID string         `json:"conversationId"`
}

func (s *Server) handleCreateSavedItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var req createSavedItemRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}
	if req.ItemType == "" || req.ItemData == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "itemType and itemData are required",
		})
		return
	}
	if !validItemTypes[req.ItemType] {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid itemType. Must be activity, hotel, or restaurant",
		})
		return
	}

	item := &models.SavedItem{
		ID:             uuid.New().String(),
		UserID:         userID,
		ItemType:       req.ItemType,
		ItemData:       req.ItemData,
		ConversationID: req.ConversationID,
	}

	if err := s.storage.CreateSavedItem(r.Context(), item); err != nil {
		s.logger.Error("failed to save item", zap.Error(err), zap.String("user_id", userID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to save item",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    item,
	})
}

func (s *Server) handleDeleteSavedItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.storage.DeleteSavedItem(r.Context(), id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"success": false,
				"error":   "Saved item not found",
			})
			return
		}
		s.logger.Error("failed to delete saved item", zap.Error(err), zap.String("id", id))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to delete saved item",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Saved item deleted successfully",
	})
}
