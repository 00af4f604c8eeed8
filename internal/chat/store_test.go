package chat

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`
		CREATE TABLE chat_messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT    NOT NULL,
			role       TEXT    NOT NULL,
			content    TEXT    NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	require.NoError(t, err)
	return conn
}

func TestStoreHistoryOrder(t *testing.T) {
	store := NewStore(chatTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", Message{Role: "user", Content: "how is THYAO doing?"}))
	require.NoError(t, store.Append(ctx, "s1", Message{Role: "assistant", Content: "checking"}))
	require.NoError(t, store.Append(ctx, "s1", Message{Role: "user", Content: "thanks"}))

	history, err := store.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "how is THYAO doing?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "thanks", history[2].Content)
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	store := NewStore(chatTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", Message{Role: "user", Content: "hello"}))
	require.NoError(t, store.Append(ctx, "s2", Message{Role: "user", Content: "merhaba"}))

	h1, err := store.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, h1, 1)
	assert.Equal(t, "hello", h1[0].Content)

	h2, err := store.History(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, h2, 1)
	assert.Equal(t, "merhaba", h2[0].Content)
}

func TestStoreClear(t *testing.T) {
	store := NewStore(chatTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1", Message{Role: "user", Content: "hello"}))
	require.NoError(t, store.Append(ctx, "s2", Message{Role: "user", Content: "kept"}))

	require.NoError(t, store.Clear(ctx, "s1"))

	h1, err := store.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, h1)

	h2, err := store.History(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, h2, 1)
}

func TestStoreEmptyHistory(t *testing.T) {
	store := NewStore(chatTestDB(t))
	history, err := store.History(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}
