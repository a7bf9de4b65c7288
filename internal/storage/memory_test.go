package storage

import (
	"context"
	"testing"
	"time"

	"github.com/wanderbot/wanderbot/internal/models"
)

func testConversation(conversationID, userID string) *models.Conversation {
	return &models.Conversation{
		UserID:         userID,
		ConversationID: conversationID,
		AgentID:        "agent-1",
		Status:         models.StatusCompleted,
		Transcript:     []models.TranscriptEntry{{Role: "user", Message: "hi"}},
		Analysis:       map[string]any{},
		Summary:        "test summary",
	}
}

func TestUpsertConversationIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	first := testConversation("conv-1", "user-a")
	if err := store.UpsertConversation(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Redelivery of the same logical event must update in place.
	second := testConversation("conv-1", "user-a")
	second.Summary = "updated summary"
	if err := store.UpsertConversation(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	conversations, err := store.ListConversations(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(conversations))
	}
	if conversations[0].Summary != "updated summary" {
		t.Fatalf("expected updated summary, got %q", conversations[0].Summary)
	}
	if conversations[0].ID != first.ID {
		t.Fatalf("expected row id %d kept, got %d", first.ID, conversations[0].ID)
	}
	if !conversations[0].CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("expected createdAt untouched by upsert collision")
	}
	if conversations[0].UpdatedAt.Before(first.UpdatedAt) {
		t.Fatal("expected updatedAt refreshed by upsert collision")
	}
}

func TestListConversationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	for _, id := range []string{"conv-1", "conv-2", "conv-3"} {
		if err := store.UpsertConversation(ctx, testConversation(id, "user-a")); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
		time.Sleep(time.Millisecond)
	}
	if err := store.UpsertConversation(ctx, testConversation("conv-other", "user-b")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	conversations, err := store.ListConversations(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(conversations) != 3 {
		t.Fatalf("expected 3 conversations for user-a, got %d", len(conversations))
	}
	if conversations[0].ConversationID != "conv-3" {
		t.Fatalf("expected newest first, got %q", conversations[0].ConversationID)
	}
}

func TestDeleteConversationScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	conv := testConversation("conv-1", "user-a")
	if err := store.UpsertConversation(ctx, conv); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := store.DeleteConversation(ctx, conv.ID, "user-b"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := store.DeleteConversation(ctx, conv.ID, "user-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteConversation(ctx, conv.ID, "user-a"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSavedItemsTypeFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	items := []*models.SavedItem{
		{ID: "i1", UserID: "user-a", ItemType: "activity", ItemData: map[string]any{"title": "Tour"}},
		{ID: "i2", UserID: "user-a", ItemType: "hotel", ItemData: map[string]any{"name": "Hostel"}},
		{ID: "i3", UserID: "user-b", ItemType: "activity", ItemData: map[string]any{"title": "Museum"}},
	}
	for _, item := range items {
		if err := store.CreateSavedItem(ctx, item); err != nil {
			t.Fatalf("create %s: %v", item.ID, err)
		}
	}

	all, err := store.ListSavedItems(ctx, "user-a", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items for user-a, got %d", len(all))
	}

	activities, err := store.ListSavedItems(ctx, "user-a", "activity")
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 1 || activities[0].ID != "i1" {
		t.Fatalf("expected only i1, got %#v", activities)
	}
}

func TestDeleteSavedItemScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	item := &models.SavedItem{ID: "i1", UserID: "user-a", ItemType: "hotel", ItemData: map[string]any{}}
	if err := store.CreateSavedItem(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.DeleteSavedItem(ctx, "i1", "user-b"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := store.DeleteSavedItem(ctx, "i1", "user-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
