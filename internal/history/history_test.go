package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/govjobs/internal/ai"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Append(ctx,
		Turn{Session: "a", Role: ai.RoleUser, Text: "q1", CreatedAt: base},
		Turn{Session: "a", Role: ai.RoleModel, Text: "a1", CreatedAt: base.Add(time.Second)},
		Turn{Session: "b", Role: ai.RoleUser, Text: "other"},
		Turn{Session: "a", Role: ai.RoleUser, Text: "q2", CreatedAt: base.Add(2 * time.Second)},
	))

	turns, err := store.Recent(ctx, "a", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "a1", turns[0].Text)
	assert.Equal(t, ai.RoleModel, turns[0].Role)
	assert.Equal(t, "q2", turns[1].Text)
	assert.True(t, turns[1].CreatedAt.Equal(base.Add(2*time.Second)))

	all, err := store.Recent(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.Equal(t, []ai.Message{
		{Role: ai.RoleModel, Text: "a1"},
		{Role: ai.RoleUser, Text: "q2"},
	}, Messages(turns))
}

func TestSessionsAndClear(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Append(ctx, Turn{Session: "a", Role: ai.RoleUser, Text: "q"}))
	require.NoError(t, store.Append(ctx,
		Turn{Session: "b", Role: ai.RoleUser, Text: "q"},
		Turn{Session: "b", Role: ai.RoleModel, Text: "a"},
	))

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b", sessions[0].ID)
	assert.Equal(t, 2, sessions[0].Turns)
	assert.Equal(t, "a", sessions[1].ID)

	removed, err := store.Clear(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = store.Clear(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	sessions, err = store.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRequired(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	assert.ErrorIs(t, store.Append(ctx, Turn{Role: ai.RoleUser, Text: "q"}), ErrNoSession)

	_, err := store.Recent(ctx, " ", 5)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
