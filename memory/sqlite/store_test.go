package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/memory"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_WriteReadAllScoping(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.December, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Write(ctx, memory.Record{Actor: "user_42", Session: "session_user_42", Namespace: "/users/user_42", Role: "user", Text: "I like sushi", CreatedAt: now}))
	require.NoError(t, store.Write(ctx, memory.Record{Actor: "user_42", Session: "session_user_42", Namespace: "/users/user_42", Role: "fact", Text: "Vegetarian", CreatedAt: now}))
	require.NoError(t, store.Write(ctx, memory.Record{Actor: "user_7", Session: "session_user_7", Namespace: "/users/user_7", Role: "user", Text: "other"}))

	recs, err := store.ReadAll(ctx, "user_42", "/users/user_42")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "I like sushi", recs[0].Text)
	assert.Equal(t, "Vegetarian", recs[1].Text)
	assert.Equal(t, now, recs[0].CreatedAt)
	assert.NotEmpty(t, recs[0].ID)

	all, err := store.ReadAll(ctx, "", "/users/user_7")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_DuplicateID(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	rec := memory.Record{ID: "fixed", Actor: "a", Namespace: "/n", Role: "user", Text: "x"}
	require.NoError(t, store.Write(ctx, rec))
	assert.ErrorIs(t, store.Write(ctx, rec), ErrAlreadyExists)
}

func TestStore_SearchFoldsCase(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()
	for _, text := range []string{"Prefers the AI/ML track", "vegetarian", "ai keynote please"} {
		require.NoError(t, store.Write(ctx, memory.Record{Actor: "a", Namespace: "/n", Role: "fact", Text: text}))
	}

	recs, err := store.Search(ctx, "a", "/n", "AI", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ai keynote please", recs[0].Text)

	recs, err = store.Search(ctx, "a", "/n", "", 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_ReopenKeepsOrder(t *testing.T) {
	store, path := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, memory.Record{Actor: "a", Namespace: "/n", Role: "user", Text: "first"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Write(ctx, memory.Record{Actor: "a", Namespace: "/n", Role: "user", Text: "second"}))

	recs, err := reopened.ReadAll(ctx, "a", "/n")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Text)
	assert.Equal(t, "second", recs[1].Text)
}

func TestStore_WorksWithBridge(t *testing.T) {
	store, _ := openStore(t)
	b := memory.NewBridge(store, "session_1")
	_, _, err := b.Bind("42")
	require.NoError(t, err)

	b.Record(context.Background(), memory.RoleUser, "I fly home Friday")
	assert.Equal(t, "- [user] I fly home Friday", b.FetchSummary(context.Background()))
}
