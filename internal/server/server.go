package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/agent"
	"github.com/wanderbot/wanderbot/internal/auth"
	"github.com/wanderbot/wanderbot/internal/recommender"
	"github.com/wanderbot/wanderbot/internal/storage"
	"github.com/wanderbot/wanderbot/internal/webhook"
)

const maxBodyBytes int64 = 2 << 20

// Server holds the handler dependencies. All of them are injected; nothing
// here reads ambient configuration.
type Server struct {
	logger        *zap.Logger
	storage       storage.Storage
	normalizer    *webhook.Normalizer
	recommender   recommender.Recommender // nil when no LLM credential is configured
	agent         *agent.Client
	auth          auth.Authenticator
	webhookSecret string
}

func New(
	logger *zap.Logger,
	store storage.Storage,
	rec recommender.Recommender,
	agentClient *agent.Client,
	authenticator auth.Authenticator,
	webhookSecret string,
) *Server {
	return &Server{
		logger:        logger,
		storage:       store,
		normalizer:    webhook.NewNormalizer(logger),
		recommender:   rec,
		agent:         agentClient,
		auth:          authenticator,
		webhookSecret: webhookSecret,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/agent/webhook", s.handleWebhookPing).Methods(http.MethodGet)
	r.HandleFunc("/api/agent/webhook", s.handleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/api/agent/start-call", s.handleStartCall).Methods(http.MethodPost)
	r.HandleFunc("/api/agent/config", s.handleAgentConfig).Methods(http.MethodGet)

	r.HandleFunc("/api/recommendations", s.handleRecommendations).Methods(http.MethodPost)

	r.HandleFunc("/api/conversations", s.handleListConversations).Methods(http.MethodGet)
	r.HandleFunc("/api/conversations/end", s.handleEndConversation).Methods(http.MethodPost)
	r.HandleFunc("/api/conversations/{id}", s.handleDeleteConversation).Methods(http.MethodDelete)

	r.HandleFunc("/api/saved-items", s.handleListSavedItems).Methods(http.MethodGet)
	r.HandleFunc("/api/saved-items", s.handleCreateSavedItem).Methods(http.MethodPost)
	r.HandleFunc("/api/saved-items/{id}", s.handleDeleteSavedItem).Methods(http.MethodDelete)

	return r
}

// NewHTTPServer wraps the handler in an http.Server with sane timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// authenticate resolves the caller's user id, answering 401 itself when the
// request carries no usable identity.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := s.auth.UserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"error":   "Unauthorized",
		})
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out by the time Encode can fail.
	_ = json.NewEncoder(w).Encode(payload)
}
