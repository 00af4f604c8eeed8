// Package server exposes the dashboard, quotes, chat and system endpoints
// over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/bistboard/bistboard/internal/chat"
	"github.com/bistboard/bistboard/internal/clients/yahoo"
	"github.com/bistboard/bistboard/internal/dashboard"
	"github.com/bistboard/bistboard/internal/database"
)

// Config holds server configuration
type Config struct {
	Port      int
	DevMode   bool
	Log       zerolog.Logger
	Cache     *dashboard.Cache
	Quotes    *database.QuoteStore
	Yahoo     *yahoo.Client
	Assistant *chat.Assistant // nil when no API key is configured
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	cache     *dashboard.Cache
	quotes    *database.QuoteStore
	yahoo     *yahoo.Client
	assistant *chat.Assistant
	events    *eventHub
	startedAt time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cache:     cfg.Cache,
		quotes:    cfg.Quotes,
		yahoo:     cfg.Yahoo,
		assistant: cfg.Assistant,
		events:    newEventHub(cfg.Log),
		startedAt: time.Now(),
	}

	// Broadcast to websocket subscribers whenever the dashboard rebuilds.
	s.cache.OnRefresh(s.events.NotifyRefreshed)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/data", s.handleData)
			r.Post("/refresh", s.handleRefresh)
			r.Get("/portfolio", s.handlePortfolio)
			r.Get("/quotes", s.handleQuotes)

			r.Post("/chat", s.handleChat)
			r.Post("/chat/clear", s.handleChatClear)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.handleSystemStatus)
			})
		})

		// Long-lived connection, kept outside the request timeout.
		r.Get("/events", s.handleEvents)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.events.CloseAll()
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
