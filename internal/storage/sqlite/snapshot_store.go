// Package sqlite implements the snapshot store on SQLite. Records are
// persisted as JSON payloads keyed by conversation id; the schema is created
// on open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/campusbot/converse/internal/storage"
	"github.com/campusbot/converse/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS context_snapshots (
	conversation_id   TEXT PRIMARY KEY,
	payload           TEXT NOT NULL,
	last_interaction  TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_context_snapshots_last_interaction
	ON context_snapshots(last_interaction DESC);
`

// SnapshotStore implements storage.SnapshotStore using SQLite.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens a SQLite database and creates the schema.
func NewSnapshotStore(dsn string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single open connection
	// serialises writes and avoids SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Save upserts a record keyed by its conversation id.
func (s *SnapshotStore) Save(ctx context.Context, record *types.ContextRecord) error {
	if record == nil || record.ConversationID == "" {
		return fmt.Errorf("sqlite: record with conversation id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("sqlite: failed to marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO context_snapshots (conversation_id, payload, last_interaction, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			payload = excluded.payload,
			last_interaction = excluded.last_interaction,
			updated_at = excluded.updated_at
	`, record.ConversationID, string(payload), record.LastInteractionAt, time.Now())
	if err != nil {
		return fmt.Errorf("sqlite: failed to save snapshot: %w", err)
	}
	return nil
}

// Load retrieves a record by conversation id.
func (s *SnapshotStore) Load(ctx context.Context, conversationID string) (*types.ContextRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM context_snapshots WHERE conversation_id = ?",
		conversationID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to load snapshot: %w", err)
	}

	var record types.ContextRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("sqlite: failed to unmarshal snapshot: %w", err)
	}
	return &record, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *SnapshotStore) Delete(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM context_snapshots WHERE conversation_id = ?", conversationID); err != nil {
		return fmt.Errorf("sqlite: failed to delete snapshot: %w", err)
	}
	return nil
}

// List returns persisted conversation ids, most recent interaction first.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT conversation_id FROM context_snapshots ORDER BY last_interaction DESC")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan snapshot row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
