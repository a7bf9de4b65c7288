package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wanderbot/wanderbot/internal/models"
)

// MemoryStorage keeps everything in process memory. Used for local
// development and as the storage double in tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	nextID        int64
	conversations map[string]*models.Conversation
	savedItems    map[string]*models.SavedItem
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:        1,
		conversations: make(map[string]*models.Conversation),
		savedItems:    make(map[string]*models.SavedItem),
	}
}

func (s *MemoryStorage) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, exists := s.conversations[conv.ConversationID]; exists {
		conv.ID = existing.ID
		conv.CreatedAt = existing.CreatedAt
		conv.UpdatedAt = now
	} else {
		conv.ID = s.nextID
		s.nextID++
		conv.CreatedAt = now
		conv.UpdatedAt = now
	}

	stored := *conv
	s.conversations[conv.ConversationID] = &stored
	return nil
}

func (s *MemoryStorage) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conversations []*models.Conversation
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			c := *conv
			conversations = append(conversations, &c)
		}
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

func (s *MemoryStorage) DeleteConversation(ctx context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, conv := range s.conversations {
		if conv.ID == id && conv.UserID == userID {
			delete(s.conversations, key)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) CreateSavedItem(ctx context.Context, item *models.SavedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.CreatedAt = time.Now()
	stored := *item
	s.savedItems[item.ID] = &stored
	return nil
}

func (s *MemoryStorage) ListSavedItems(ctx context.Context, userID, itemType string) ([]*models.SavedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*models.SavedItem
	for _, item := range s.savedItems {
		if item.UserID != userID {
			continue
		}
		if itemType != "" && item.ItemType != itemType {
			continue
		}
		i := *item
		items = append(items, &i)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStorage) DeleteSavedItem(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, exists := s.savedItems[id]; exists && item.UserID == userID {
		delete(s.savedItems, id)
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
