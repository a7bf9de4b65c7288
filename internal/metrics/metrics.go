package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Webhook deliveries by outcome",
	}, []string{"outcome"})

	ConversationUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conversation_upserts_total",
		Help: "Conversation records written or refreshed",
	})

	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendations_total",
		Help: "Recommendation responses by source",
	}, []string{"source"})
)

// Label values for WebhookEvents.
const (
	OutcomeStored       = "stored"
	OutcomeIgnored      = "ignored"
	OutcomeUnauthorized = "unauthorized"
	OutcomeBadPayload   = "bad_payload"
	OutcomeStorageError = "storage_error"
)

// Label values for Recommendations.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)
