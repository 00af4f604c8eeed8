package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistboard/bistboard/internal/chat"
	"github.com/bistboard/bistboard/internal/clients/yahoo"
	"github.com/bistboard/bistboard/internal/config"
	"github.com/bistboard/bistboard/internal/dashboard"
	"github.com/bistboard/bistboard/internal/database"
	"github.com/bistboard/bistboard/internal/portfolio"
	"github.com/bistboard/bistboard/internal/scheduler"
	"github.com/bistboard/bistboard/internal/server"
	"github.com/bistboard/bistboard/internal/workbook"
	"github.com/bistboard/bistboard/pkg/logger"
)

func main() {
	// Load configuration first so the log level is configurable
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting BIST Board")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Dashboard pipeline: workbook loader -> computation -> cache
	loader := workbook.NewLoader(cfg.Tickers, log)
	build := func(ctx context.Context) (*portfolio.Dashboard, error) {
		wb, err := loader.Load(ctx, cfg.WorkbookPath)
		if err != nil {
			return nil, err
		}
		return portfolio.BuildDashboard(wb), nil
	}
	cache := dashboard.NewCache(build, dashboard.NewSnapshot(cfg.DataDir), log)

	// Market-data clients
	yahooClient := yahoo.NewClient(log)
	quoteStore := database.NewQuoteStore(db.Conn())

	// Chat assistant, off when no API key is configured
	var assistant *chat.Assistant
	if cfg.OpenAIAPIKey != "" {
		functions := chat.NewFunctions(yahooClient, cache, cfg.Tickers)
		assistant = chat.NewAssistant(chat.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Tickers: cfg.Tickers,
		}, functions, chat.NewStore(db.Conn()), log)
		log.Info().Str("model", cfg.OpenAIModel).Msg("Chat assistant enabled")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, chat endpoints disabled")
	}

	// Initialize scheduler
	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(cache, log)
	if err := registerJobs(sched, cfg, refreshJob, yahooClient, quoteStore, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// A snapshot-seeded cache may be stale after a restart; rebuild in the
	// background so early requests are served while fresh data loads.
	go func() {
		if err := sched.RunNow(refreshJob); err != nil {
			log.Error().Err(err).Msg("Initial dashboard refresh failed")
		}
	}()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Log:       log,
		Cache:     cache,
		Quotes:    quoteStore,
		Yahoo:     yahooClient,
		Assistant: assistant,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	refreshJob *scheduler.RefreshJob,
	yahooClient *yahoo.Client,
	quoteStore *database.QuoteStore,
	log zerolog.Logger,
) error {
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		return err
	}
	return sched.AddJob(cfg.QuotePollSchedule, scheduler.NewQuotePollJob(yahooClient, quoteStore, cfg.Tickers, log))
}
