package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/agent"
	"github.com/wanderbot/wanderbot/internal/auth"
	"github.com/wanderbot/wanderbot/internal/models"
	"github.com/wanderbot/wanderbot/internal/recommender"
	"github.com/wanderbot/wanderbot/internal/storage"
	"github.com/wanderbot/wanderbot/internal/webhook"
)

const testWebhookSecret = "whsec_test"

func newTestServer(store storage.Storage, rec recommender.Recommender) *Server {
	logger := zap.NewNop()
	return New(
		logger,
		store,
		rec,
		agent.NewClient("", "", "https://api.elevenlabs.io", logger),
		auth.HeaderAuthenticator{Header: "X-User-Id"},
		testWebhookSecret,
	)
}

func postWebhook(t *testing.T, handler http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/agent/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Elevenlabs-Signature", signature)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestWebhookStoresConversation(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	body := []byte(`{"type":"post_call_transcription","data":{"conversation_id":"c1","agent_id":"a1","status":"completed","transcript":[{"role":"user","message":"I want Tokyo"}],"analysis":{"transcript_summary":"Trip to Tokyo"}}}`)
	rr := postWebhook(t, handler, body, webhook.Sign(testWebhookSecret, body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	conversations, err := store.ListConversations(context.Background(), models.UnknownUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected one stored conversation, got %d", len(conversations))
	}
	conv := conversations[0]
	if conv.ConversationID != "c1" {
		t.Fatalf("expected conversation id c1, got %q", conv.ConversationID)
	}
	if conv.Summary != "Trip to Tokyo" {
		t.Fatalf("expected summary from analysis, got %q", conv.Summary)
	}
	if conv.UserID != models.UnknownUserID {
		t.Fatalf("expected unknown userId, got %q", conv.UserID)
	}
}

func TestWebhookRedeliveryUpdatesInPlace(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	body := []byte(`{"type":"post_call_transcription","data":{"conversation_id":"c1","agent_id":"a1","analysis":{"transcript_summary":"Trip to Tokyo"}}}`)
	sig := webhook.Sign(testWebhookSecret, body)

	for i := 0; i < 2; i++ {
		if rr := postWebhook(t, handler, body, sig); rr.Code != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d", i, rr.Code)
		}
	}

	conversations, err := store.ListConversations(context.Background(), models.UnknownUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected exactly one row after redelivery, got %d", len(conversations))
	}
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	body := []byte(`{"type":"post_call_transcription","data":{"conversation_id":"c1"}}`)
	sig := webhook.Sign(testWebhookSecret, body)

	tampered := make([]byte, len(body))
	copy(tampered, body)
	tampered[len(tampered)/2] ^= 1

	rr := postWebhook(t, handler, tampered, sig)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered body, got %d", rr.Code)
	}

	conversations, _ := store.ListConversations(context.Background(), models.UnknownUserID)
	if len(conversations) != 0 {
		t.Fatal("expected nothing persisted for a rejected delivery")
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	handler := newTestServer(storage.NewMemoryStorage(), nil).Handler()

	body := []byte(`{"type":"post_call_transcription","data":{"conversation_id":"c1"}}`)
	rr := postWebhook(t, handler, body, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing signature, got %d", rr.Code)
	}
}

func TestWebhookRejectsMissingData(t *testing.T) {
	handler := newTestServer(storage.NewMemoryStorage(), nil).Handler()

	body := []byte(`{"type":"post_call_transcription"}`)
	rr := postWebhook(t, handler, body, webhook.Sign(testWebhookSecret, body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing data, got %d", rr.Code)
	}
}

func TestWebhookAcksOtherEventTypes(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	body := []byte(`{"type":"post_call_audio","data":{"conversation_id":"c1"}}`)
	rr := postWebhook(t, handler, body, webhook.Sign(testWebhookSecret, body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 ack, got %d", rr.Code)
	}

	conversations, _ := store.ListConversations(context.Background(), models.UnknownUserID)
	if len(conversations) != 0 {
		t.Fatal("expected no record for a non-transcription event")
	}
}

func TestWebhookStorageFailureIs500(t *testing.T) {
	handler := newTestServer(failingStorage{}, nil).Handler()

	body := []byte(`{"type":"post_call_transcription","data":{"conversation_id":"c1"}}`)
	rr := postWebhook(t, handler, body, webhook.Sign(testWebhookSecret, body))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on storage failure, got %d", rr.Code)
	}
}

// failingStorage errors every write so the 5xx path can be exercised.
type failingStorage struct{}

var errStorageDown = errors.New("storage down")

func (failingStorage) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	return errStorageDown
}

func (failingStorage) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	return nil, errStorageDown
}

func (failingStorage) DeleteConversation(ctx context.Context, id int64, userID string) error {
	return errStorageDown
}

func (failingStorage) CreateSavedItem(ctx context.Context, item *models.SavedItem) error {
	return errStorageDown
}

func (failingStorage) ListSavedItems(ctx context.Context, userID, itemType string) ([]*models.SavedItem, error) {
	return nil, errStorageDown
}

func (failingStorage) DeleteSavedItem(ctx context.Context, id, userID string) error {
	return errStorageDown
}

func (failingStorage) Close() error { return nil }
