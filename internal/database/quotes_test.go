package database

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.Exec(`
		CREATE TABLE quotes (
			symbol     TEXT    NOT NULL PRIMARY KEY,
			price      REAL,
			change_pct REAL,
			currency   TEXT,
			fetched_at INTEGER NOT NULL
		)
	`)
	require.NoError(t, err)
	return conn
}

func TestQuoteStoreUpsert(t *testing.T) {
	store := NewQuoteStore(quoteTestDB(t))
	ctx := context.Background()

	price := 250.5
	change := 2.24
	require.NoError(t, store.Upsert(ctx, StoredQuote{
		Symbol:    "THYAO.IS",
		Price:     &price,
		ChangePct: &change,
		Currency:  "TRY",
		FetchedAt: 1700000000,
	}))

	quotes, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "THYAO.IS", quotes[0].Symbol)
	require.NotNil(t, quotes[0].Price)
	assert.Equal(t, 250.5, *quotes[0].Price)
	assert.Equal(t, int64(1700000000), quotes[0].FetchedAt)

	// second upsert replaces, never duplicates
	newPrice := 260.0
	require.NoError(t, store.Upsert(ctx, StoredQuote{
		Symbol:    "THYAO.IS",
		Price:     &newPrice,
		Currency:  "TRY",
		FetchedAt: 1700000900,
	}))

	quotes, err = store.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, 260.0, *quotes[0].Price)
	assert.Nil(t, quotes[0].ChangePct)
}

func TestQuoteStoreAllOrdersBySymbol(t *testing.T) {
	store := NewQuoteStore(quoteTestDB(t))
	ctx := context.Background()

	for _, sym := range []string{"VAKBN.IS", "HALKB.IS", "THYAO.IS"} {
		require.NoError(t, store.Upsert(ctx, StoredQuote{Symbol: sym, FetchedAt: 1}))
	}

	quotes, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "HALKB.IS", quotes[0].Symbol)
	assert.Equal(t, "THYAO.IS", quotes[1].Symbol)
	assert.Equal(t, "VAKBN.IS", quotes[2].Symbol)
}

func TestQuoteStoreNullFields(t *testing.T) {
	store := NewQuoteStore(quoteTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, StoredQuote{Symbol: "KRDMD.IS", FetchedAt: 1}))

	quotes, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Nil(t, quotes[0].Price)
	assert.Nil(t, quotes[0].ChangePct)
	assert.Empty(t, quotes[0].Currency)
}
