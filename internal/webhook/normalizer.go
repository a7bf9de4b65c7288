package webhook

import (
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/wanderbot/wanderbot/internal/models"
)

// EventTypePostCallTranscription is the only event type this service
// persists. Other lifecycle events are acknowledged and dropped.
const EventTypePostCallTranscription = "post_call_transcription"

// NoSummaryPlaceholder is stored when neither the provider analysis nor the
// transcript yields any usable summary text.
const NoSummaryPlaceholder = "No summary available"

const maxSummaryRunes = 500

var (
	ErrNoData           = errors.New("webhook payload has no data field")
	ErrNoConversationID = errors.New("webhook payload has no conversation_id")
)

// Event is the provider's webhook envelope.
type Event struct {
	Type string     `json:"type"`
	Data *EventData `json:"data"`
}

// EventData is the conversation payload inside an event. The provider has
// shipped several shapes over time, so everything that varies is decoded
// loosely and probed rather than trusted.
type EventData struct {
	ConversationID string          `json:"conversation_id"`
	AgentID        string          `json:"agent_id"`
	Status         string          `json:"status"`
	UserID         string          `json:"user_id"`
	Transcript     json.RawMessage `json:"transcript"`
	Analysis       map[string]any  `json:"analysis"`
	Metadata       map[string]any  `json:"metadata"`
	ClientData     map[string]any  `json:"conversation_initiation_client_data"`
}

// Normalizer turns raw provider events into Conversation records.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize extracts a Conversation from one provider event. A nil, nil
// return means the event type is not one we persist and the delivery should
// be acknowledged without a write.
func (n *Normalizer) Normalize(event *Event) (*models.Conversation, error) {
	if event.Type != EventTypePostCallTranscription {
		return nil, nil
	}
	if event.Data == nil {
		return nil, ErrNoData
	}

	d := event.Data
	if d.ConversationID == "" {
		return nil, ErrNoConversationID
	}

	userID := d.userID()
	if userID == "" {
		// Kept rather than dropped: losing the conversation would hide the
		// client-side wiring defect the warning points at.
		n.logger.Warn("no userId found in webhook payload, storing as unknown",
			zap.String("conversation_id", d.ConversationID))
		userID = models.UnknownUserID
	}

	status := d.Status
	if status == "" {
		status = models.StatusCompleted
	}

	analysis := d.Analysis
	if analysis == nil {
		analysis = map[string]any{}
	}

	transcript := d.transcriptEntries()

	return &models.Conversation{
		UserID:         userID,
		ConversationID: d.ConversationID,
		AgentID:        d.AgentID,
		Status:         status,
		Transcript:     transcript,
		Analysis:       analysis,
		Summary:        d.summarize(transcript),
	}, nil
}

// userID probes the payload locations the provider and our own client code
// have used, in fixed priority order. First non-empty match wins.
func (d *EventData) userID() string {
	if id := stringField(d.Metadata, "userId"); id != "" {
		return id
	}
	if cd := d.ClientData; cd != nil {
		if id := stringField(cd, "userId"); id != "" {
			return id
		}
		if id := stringField(childMap(cd, "custom_llm_extra_body"), "userId"); id != "" {
			return id
		}
		if id := stringField(childMap(cd, "metadata"), "userId"); id != "" {
			return id
		}
		if id := stringField(childMap(cd, "dynamic_variables"), "userId"); id != "" {
			return id
		}
	}
	return d.UserID
}

// summarize prefers the provider-computed summary and otherwise synthesizes
// one from what the user said.
func (d *EventData) summarize(transcript []models.TranscriptEntry) string {
	if s := stringField(d.Analysis, "transcript_summary"); s != "" {
		return truncateRunes(s, maxSummaryRunes)
	}
	if s := stringField(d.Analysis, "summary"); s != "" {
		return truncateRunes(s, maxSummaryRunes)
	}
	if s := SynthesizeSummary(transcript); s != "" {
		return s
	}
	return NoSummaryPlaceholder
}

// SynthesizeSummary joins the user's turns into a capped summary string.
// Returns "" when the transcript has nothing usable from the user.
func SynthesizeSummary(transcript []models.TranscriptEntry) string {
	parts := make([]string, 0, len(transcript))
	for _, entry := range transcript {
		if entry.Role == "user" {
			parts = append(parts, entry.Message)
		}
	}
	joined := strings.TrimSpace(strings.Join(parts, " "))
	return truncateRunes(joined, maxSummaryRunes)
}

// transcriptEntries decodes the transcript, treating anything that is not a
// sequence of {role, message} objects as absent.
func (d *EventData) transcriptEntries() []models.TranscriptEntry {
	entries := []models.TranscriptEntry{}
	if len(d.Transcript) == 0 || string(d.Transcript) == "null" {
		return entries
	}
	if err := json.Unmarshal(d.Transcript, &entries); err != nil {
		return []models.TranscriptEntry{}
	}
	return entries
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func childMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
