package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredQuote is a row in the quotes table.
type StoredQuote struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	ChangePct *float64 `json:"change_pct"`
	Currency  string   `json:"currency"`
	FetchedAt int64    `json:"fetched_at"`
}

// QuoteStore persists the latest polled quote per symbol.
type QuoteStore struct {
	db *sql.DB
}

// NewQuoteStore creates a quote store.
func NewQuoteStore(db *sql.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

// Upsert stores the latest quote for a symbol, replacing any previous row.
func (s *QuoteStore) Upsert(ctx context.Context, q StoredQuote) error {
	if q.FetchedAt == 0 {
		q.FetchedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (symbol, price, change_pct, currency, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			change_pct = excluded.change_pct,
			currency = excluded.currency,
			fetched_at = excluded.fetched_at
	`, q.Symbol, q.Price, q.ChangePct, q.Currency, q.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert quote for %s: %w", q.Symbol, err)
	}
	return nil
}

// All returns every stored quote ordered by symbol.
func (s *QuoteStore) All(ctx context.Context) ([]StoredQuote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, price, change_pct, currency, fetched_at
		FROM quotes ORDER BY symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []StoredQuote
	for rows.Next() {
		var q StoredQuote
		var price, changePct sql.NullFloat64
		var currency sql.NullString
		if err := rows.Scan(&q.Symbol, &price, &changePct, &currency, &q.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		if price.Valid {
			v := price.Float64
			q.Price = &v
		}
		if changePct.Valid {
			v := changePct.Float64
			q.ChangePct = &v
		}
		q.Currency = currency.String
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
