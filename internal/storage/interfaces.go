// Package storage provides the persistence collaborator for conversation
// context snapshots. The engine exposes a serialize/hydrate pair; a
// SnapshotStore is the injected medium that actually holds the flattened
// records. The engine itself never decides when to persist.
package storage

import (
	"context"
	"errors"

	"github.com/campusbot/converse/pkg/types"
)

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists flattened conversation context records.
type SnapshotStore interface {
	// Save upserts a record keyed by its conversation id.
	Save(ctx context.Context, record *types.ContextRecord) error

	// Load retrieves a record by conversation id.
	// Returns ErrNotFound when no record exists.
	Load(ctx context.Context, conversationID string) (*types.ContextRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, conversationID string) error

	// List returns the conversation ids with persisted records, ordered
	// by most recent interaction first.
	List(ctx context.Context) ([]string, error)

	// Close releases the underlying database handle.
	Close() error
}
