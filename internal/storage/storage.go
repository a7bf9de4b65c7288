package storage

import (
	"context"
	"errors"

	"github.com/wanderbot/wanderbot/internal/models"
)

// ErrNotFound is returned by delete operations when no row matched the id and
// owner, so handlers can answer 404 instead of 500.
var ErrNotFound = errors.New("not found")

type Storage interface {
	// UpsertConversation inserts the conversation or, when a row with the
	// same conversation id exists, overwrites its mutable fields and
	// refreshes updated_at. Implementations must do this as one atomic
	// operation: duplicate webhook deliveries race each other.
	UpsertConversation(ctx context.Context, conv *models.Conversation) error
	ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error)
	DeleteConversation(ctx context.Context, id int64, userID string) error

	CreateSavedItem(ctx context.Context, item *models.SavedItem) error
	ListSavedItems(ctx context.Context, userID, itemType string) ([]*models.SavedItem, error)
	DeleteSavedItem(ctx context.Context, id, userID string) error

	Close() error
}
