package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/metrics"
	"github.com/wanderbot/wanderbot/internal/webhook"
)

// handleWebhookPing lets the provider dashboard's URL check succeed.
func (s *Server) handleWebhookPing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "webhook endpoint is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleWebhook ingests conversation-completion events from the voice-agent
// provider: verify, normalize, upsert. Errors before the write are terminal
// for the delivery; a 5xx tells the provider to redeliver.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	deliveryID := uuid.New().String()
	logger := s.logger.With(zap.String("delivery_id", deliveryID))

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeBadPayload).Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "failed to read body"})
		return
	}

	// Verification runs over the raw bytes: parsing first would let a forged
	// body through with a signature computed for different whitespace.
	if s.webhookSecret != "" {
		signature := webhook.SignatureFromRequest(r)
		if signature == "" || !webhook.VerifySignature(s.webhookSecret, body, signature) {
			metrics.WebhookEvents.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
			logger.Warn("webhook signature missing or invalid")
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
	}

	var event webhook.Event
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeBadPayload).Inc()
		logger.Warn("webhook body is not valid JSON", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid webhook payload"})
		return
	}

	conv, err := s.normalizer.Normalize(&event)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeBadPayload).Inc()
		logger.Warn("webhook payload rejected", zap.Error(err), zap.String("type", event.Type))
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid webhook payload"})
		return
	}
	if conv == nil {
		// Legitimately not ours to persist; ack so the provider stops retrying.
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeIgnored).Inc()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if err := s.storage.UpsertConversation(r.Context(), conv); err != nil {
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeStorageError).Inc()
		logger.Error("failed to store conversation",
			zap.Error(err),
			zap.String("conversation_id", conv.ConversationID))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal error"})
		return
	}

	metrics.WebhookEvents.WithLabelValues(metrics.OutcomeStored).Inc()
	metrics.ConversationUpserts.Inc()
	logger.Info("conversation stored",
		zap.String("conversation_id", conv.ConversationID),
		zap.String("user_id", conv.UserID),
		zap.String("status", conv.Status))

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
