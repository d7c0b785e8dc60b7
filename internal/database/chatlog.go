package database

import (
	"context"
	"fmt"

	"smartretail/internal/models"

	"github.com/jmoiron/sqlx"
)

// ChatLogStore provides append-only access to the chat log table
type ChatLogStore struct {
	db *sqlx.DB
}

// NewChatLogStore creates a new chat log store
func NewChatLogStore(db *sqlx.DB) *ChatLogStore {
	return &ChatLogStore{db: db}
}

// EnsureTable creates the chat log table if it does not exist
func (s *ChatLogStore) EnsureTable(ctx context.Context) error {
	var query string
	if s.db.DriverName() == driverPostgres {
		query = `
			CREATE TABLE IF NOT EXISTS chat_log (
				id SERIAL PRIMARY KEY,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`
	} else {
		query = `
			CREATE TABLE IF NOT EXISTS chat_log (
				id INT AUTO_INCREMENT PRIMARY KEY,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`
	}

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create chat_log table: %w", err)
	}
	return nil
}

// Append writes one question/answer pair to the log.
// Entries are never updated or deleted.
func (s *ChatLogStore) Append(ctx context.Context, question, answer string) error {
	query := s.db.Rebind(`INSERT INTO chat_log (question, answer, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`)
	if _, err := s.db.ExecContext(ctx, query, question, answer); err != nil {
		return fmt.Errorf("failed to append chat log entry: %w", err)
	}
	return nil
}

// Recent returns the newest log entries, most recent first
func (s *ChatLogStore) Recent(ctx context.Context, limit int) ([]models.ChatLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []models.ChatLogEntry
	query := s.db.Rebind(`SELECT id, question, answer, created_at FROM chat_log ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read chat log: %w", err)
	}
	if entries == nil {
		entries = []models.ChatLogEntry{}
	}
	return entries, nil
}

// Count returns the total number of log entries
func (s *ChatLogStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM chat_log`); err != nil {
		return 0, fmt.Errorf("failed to count chat log entries: %w", err)
	}
	return count, nil
}
