package models

import "time"

// StatusCompleted is what the provider reports for a normally ended call and
// what we assume when the payload omits a status.
const StatusCompleted = "completed"

// UnknownUserID marks conversations whose owner could not be determined from
// the webhook payload. It is a real value, not an error: the record is kept so
// no conversation data is lost when the client forgets to attach an identity.
const UnknownUserID = "unknown"

// TranscriptEntry is a single turn of a voice conversation.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Conversation is one voice-agent session. ConversationID is the provider's
// id and the natural key: a redelivered webhook updates the existing row.
type Conversation struct {
	ID             int64             `json:"id"`
	UserID         string            `json:"userId"`
	ConversationID string            `json:"conversationId"`
	AgentID        string            `json:"agentId"`
	Status         string            `json:"status"`
	Transcript     []TranscriptEntry `json:"transcript"`
	Analysis       map[string]any    `json:"analysis"`
	Summary        string            `json:"summary"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// SavedItem is a recommendation the user pinned from a results screen.
// ItemData carries the full activity/hotel/restaurant object as shown.
type SavedItem struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	ItemType       string         `json:"itemType"`
	ItemData       map[string]any `json:"itemData"`
	ConversationID string         `json:"conversationId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
