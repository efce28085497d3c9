package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbot/converse/internal/storage"
	"github.com/campusbot/converse/internal/storage/sqlite"
	"github.com/campusbot/converse/pkg/types"
)

func openTestStore(t *testing.T) *sqlite.SnapshotStore {
	t.Helper()
	store, err := sqlite.NewSnapshotStore(filepath.Join(t.TempDir(), "converse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(id string, lastInteraction time.Time) *types.ContextRecord {
	return &types.ContextRecord{
		ConversationID:    id,
		Language:          types.LanguageEnglish,
		Subject:           "Computer Science",
		Topic:             "fees",
		FollowUpCount:     2,
		ContextConfidence: 0.8,
		Numbers:           []types.NumberPair{{Key: "fee", Value: 3000}},
		Entities:          []string{"Computer Science"},
		State:             types.StateTopicFocused,
		UserTurns:         3,
		CreatedAt:         lastInteraction.Add(-10 * time.Minute),
		LastInteractionAt: lastInteraction,
	}
}

func TestSnapshotStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := testRecord("conv-1", time.Now())
	require.NoError(t, store.Save(ctx, record))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", loaded.Subject)
	assert.Equal(t, "fees", loaded.Topic)
	assert.Equal(t, 2, loaded.FollowUpCount)
	assert.Equal(t, types.StateTopicFocused, loaded.State)
	require.Len(t, loaded.Numbers, 1)
	assert.Equal(t, 3000.0, loaded.Numbers[0].Value)
}

// TestSnapshotStore_SaveUpserts verifies saving the same conversation twice
// overwrites instead of duplicating.
func TestSnapshotStore_SaveUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("conv-1", time.Now())))

	updated := testRecord("conv-1", time.Now())
	updated.Subject = "Engineering"
	require.NoError(t, store.Save(ctx, updated))

	loaded, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", loaded.Subject)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background(), "ghost")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestSnapshotStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("conv-1", time.Now())))
	require.NoError(t, store.Delete(ctx, "conv-1"))

	_, err := store.Load(ctx, "conv-1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	// Deleting a missing record is not an error.
	assert.NoError(t, store.Delete(ctx, "conv-1"))
}

// TestSnapshotStore_ListOrdersByRecency verifies List returns ids most
// recent interaction first, which the startup rehydration relies on.
func TestSnapshotStore_ListOrdersByRecency(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Save(ctx, testRecord("old", now.Add(-2*time.Hour))))
	require.NoError(t, store.Save(ctx, testRecord("newest", now)))
	require.NoError(t, store.Save(ctx, testRecord("middle", now.Add(-1*time.Hour))))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "old"}, ids)
}

func TestSnapshotStore_RejectsEmptyID(t *testing.T) {
	store := openTestStore(t)

	assert.Error(t, store.Save(context.Background(), &types.ContextRecord{}))
	assert.Error(t, store.Save(context.Background(), nil))
}
