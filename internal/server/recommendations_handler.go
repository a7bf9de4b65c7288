package server

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/metrics"
	"github.com/wanderbot/wanderbot/internal/models"
	"github.com/wanderbot/wanderbot/internal/recommender"
)

// handleRecommendations turns a conversation summary into travel
// recommendations. Once the caller is authenticated and has supplied a
// summary, the response is always 200 with success:true: every downstream
// failure degrades to the curated fallback so the UI stays renderable, with
// the failure carried in an auxiliary error string.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var req models.RecommendationsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.RecommendationsResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}
	if req.ConversationSummary == "" {
		writeJSON(w, http.StatusBadRequest, models.RecommendationsResponse{
			Success: false,
			Error:   "Conversation summary is required",
		})
		return
	}

	logger := s.logger.With(
		zap.String("user_id", userID),
		zap.String("conversation_id", req.ConversationID))

	if s.recommender == nil {
		logger.Warn("no LLM credential configured, serving fallback recommendations")
		metrics.Recommendations.WithLabelValues(metrics.SourceFallback).Inc()
		writeJSON(w, http.StatusOK, models.RecommendationsResponse{
			Success: true,
			Data:    recommender.Fallback(req.ConversationSummary),
		})
		return
	}

	recs, err := s.recommender.Recommend(r.Context(), req.ConversationSummary)
	if err != nil {
		// Expected degraded path, not a request failure. The typed error is
		// kept for the log; the caller gets fallback data and success:true.
		logger.Warn("recommendation generation failed, serving fallback", zap.Error(err))
		metrics.Recommendations.WithLabelValues(metrics.SourceFallback).Inc()
		writeJSON(w, http.StatusOK, models.RecommendationsResponse{
			Success: true,
			Data:    recommender.Fallback(req.ConversationSummary),
			Error:   "Using demo recommendations. " + err.Error(),
		})
		return
	}

	metrics.Recommendations.WithLabelValues(metrics.SourceLLM).Inc()
	writeJSON(w, http.StatusOK, models.RecommendationsResponse{
		Success: true,
		Data:    recs,
	})
}
