package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistboard/bistboard/internal/clients/yahoo"
	"github.com/bistboard/bistboard/internal/dashboard"
	"github.com/bistboard/bistboard/internal/database"
)

// RefreshJob rebuilds the dashboard from the workbook source.
type RefreshJob struct {
	cache *dashboard.Cache
	log   zerolog.Logger
}

// NewRefreshJob creates the dashboard refresh job.
func NewRefreshJob(cache *dashboard.Cache, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		cache: cache,
		log:   log.With().Str("component", "refresh_job").Logger(),
	}
}

func (j *RefreshJob) Name() string { return "dashboard_refresh" }

func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := j.cache.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

// QuotePollJob fetches live quotes for the portfolio tickers and stores
// them for the quotes endpoint. It only runs during Istanbul market hours.
type QuotePollJob struct {
	yahoo   *yahoo.Client
	store   *database.QuoteStore
	tickers []string
	now     func() time.Time
	log     zerolog.Logger
}

// NewQuotePollJob creates the quote polling job.
func NewQuotePollJob(client *yahoo.Client, store *database.QuoteStore, tickers []string, log zerolog.Logger) *QuotePollJob {
	return &QuotePollJob{
		yahoo:   client,
		store:   store,
		tickers: tickers,
		now:     time.Now,
		log:     log.With().Str("component", "quote_poll_job").Logger(),
	}
}

func (j *QuotePollJob) Name() string { return "quote_poll" }

func (j *QuotePollJob) Run() error {
	if !j.marketOpen() {
		j.log.Debug().Msg("Market closed, skipping quote poll")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	quotes := j.yahoo.GetMultipleQuotes(ctx, j.tickers)
	fetchedAt := j.now().Unix()

	var stored, failed int
	for _, q := range quotes {
		if q.Error != "" {
			failed++
			j.log.Warn().Str("ticker", q.Ticker).Str("error", q.Error).Msg("Quote fetch failed")
			continue
		}
		err := j.store.Upsert(ctx, database.StoredQuote{
			Symbol:    q.Ticker,
			Price:     q.Price,
			ChangePct: q.ChangePercent,
			Currency:  q.Currency,
			FetchedAt: fetchedAt,
		})
		if err != nil {
			failed++
			j.log.Warn().Err(err).Str("ticker", q.Ticker).Msg("Quote store failed")
			continue
		}
		stored++
	}

	j.log.Info().Int("stored", stored).Int("failed", failed).Msg("Quote poll finished")
	return nil
}

// marketOpen reports whether Borsa Istanbul is trading: weekdays,
// 10:00-18:00 local time. Falls back to always-open if the tzdata
// lookup fails.
func (j *QuotePollJob) marketOpen() bool {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		return true
	}
	now := j.now().In(loc)
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= 10 && now.Hour() < 18
}
