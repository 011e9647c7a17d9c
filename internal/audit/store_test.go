package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestLogAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Log(ctx, Event{
		Type:         EventValidate,
		Valid:        true,
		EntropyScore: 0.42,
		DurationMs:   3,
	}))
	require.NoError(t, store.Log(ctx, Event{
		Type:       EventTimeoutOverride,
		Valid:      false,
		DurationMs: 250,
		Reason:     "verification exceeded timeout",
	}))

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first
	assert.Equal(t, EventTimeoutOverride, events[0].Type)
	assert.False(t, events[0].Valid)
	assert.Equal(t, "verification exceeded timeout", events[0].Reason)

	assert.Equal(t, EventValidate, events[1].Type)
	assert.True(t, events[1].Valid)
	assert.InDelta(t, 0.42, events[1].EntropyScore, 1e-9)
	assert.NotEmpty(t, events[1].ID)
	assert.False(t, events[1].Time.IsZero())
}

func TestRecentLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Log(ctx, Event{Type: EventValidate, Valid: true}))
	}

	events, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestRecentEmpty(t *testing.T) {
	store := testStore(t)

	events, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
