package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/wanderbot/wanderbot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	transcript, err := json.Marshal(conv.Transcript)
	if err != nil {
		return fmt.Errorf("error encoding transcript: %v", err)
	}
	analysis, err := json.Marshal(conv.Analysis)
	if err != nil {
		return fmt.Errorf("error encoding analysis: %v", err)
	}

	// Single statement: a read-then-write would race concurrent redeliveries
	// of the same conversation.
	query := `
		INSERT INTO conversations (user_id, conversation_id, agent_id, status, transcript, analysis, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (conversation_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			agent_id = EXCLUDED.agent_id,
			status = EXCLUDED.status,
			transcript = EXCLUDED.transcript,
			analysis = EXCLUDED.analysis,
			summary = EXCLUDED.summary,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err = s.db.QueryRowContext(ctx, query,
		conv.UserID,
		conv.ConversationID,
		conv.AgentID,
		conv.Status,
		transcript,
		analysis,
		conv.Summary,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error upserting conversation: %v", err)
	}

	return nil
}

func (s *PostgresStorage) ListConversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	query := `
		SELECT id, user_id, conversation_id, agent_id, status, transcript, analysis, summary, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %v", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		conv := &models.Conversation{}
		var transcript, analysis []byte
		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.ConversationID,
			&conv.AgentID,
			&conv.Status,
			&transcript,
			&analysis,
			&conv.Summary,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation: %v", err)
		}
		if err := json.Unmarshal(transcript, &conv.Transcript); err != nil {
			return nil, fmt.Errorf("error decoding transcript: %v", err)
		}
		if err := json.Unmarshal(analysis, &conv.Analysis); err != nil {
			return nil, fmt.Errorf("error decoding analysis: %v", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, rows.Err()
}

func (s *PostgresStorage) DeleteConversation(ctx context.Context, id int64, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting conversation: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStorage) CreateSavedItem(ctx context.Context, item *models.SavedItem) error {
	itemData, err := json.Marshal(item.ItemData)
	if err != nil {
		return fmt.Errorf("error encoding item data: %v", err)
	}

	query := `
		INSERT INTO saved_items (id, user_id, item_type, item_data, conversation_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING created_at`

	err = s.db.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.ItemType,
		itemData,
		item.ConversationID,
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating saved item: %v", err)
	}

	return nil
}

func (s *PostgresStorage) ListSavedItems(ctx context.Context, userID, itemType string) ([]*models.SavedItem, error) {
	query := `
		SELECT id, user_id, item_type, item_data, COALESCE(conversation_id, ''), created_at
		FROM saved_items
		WHERE user_id = $1 AND ($2 = '' OR item_type = $2)
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, itemType)
	if err != nil {
		return nil, fmt.Errorf("error querying saved items: %v", err)
	}
	defer rows.Close()

	var items []*models.SavedItem
	for rows.Next() {
		item := &models.SavedItem{}
		var itemData []byte
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ItemType,
			&itemData,
			&item.ConversationID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning saved item: %v", err)
		}
		if err := json.Unmarshal(itemData, &item.ItemData); err != nil {
			return nil, fmt.Errorf("error decoding item data: %v", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *PostgresStorage) DeleteSavedItem(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting saved item: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
