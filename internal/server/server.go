// Package server provides the HTTP server and routing for paddock.
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

	"github.com/apexsim/paddock/internal/config"
	"github.com/apexsim/paddock/internal/database"
	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/modules/market"
	markethandlers "github.com/apexsim/paddock/internal/modules/market/handlers"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	negotiationhandlers "github.com/apexsim/paddock/internal/modules/negotiation/handlers"
	"github.com/apexsim/paddock/internal/modules/scouting"
	scoutinghandlers "github.com/apexsim/paddock/internal/modules/scouting/handlers"
	"github.com/apexsim/paddock/internal/services"
)

// Config holds server configuration
type Config struct {
	Log          zerolog.Logger
	DB           *database.DB
	Config       *config.Config
	Port         int
	DevMode      bool
	EventBus     *events.Bus
	EventManager *events.Manager
	Negotiations *services.NegotiationService
	Sessions     *negotiation.Repository
	Scouting     *scouting.Service
	Snapshots    *market.Builder
	// Backups is nil when cloud backups are not configured.
	Backups BackupService
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	db             *database.DB
	cfg            *config.Config
	port           int
	eventBus       *events.Bus
	negotiations   *services.NegotiationService
	sessions       *negotiation.Repository
	scouting       *scouting.Service
	snapshots      *market.Builder
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		log:          cfg.Log.With().Str("component", "server").Logger(),
		db:           cfg.DB,
		cfg:          cfg.Config,
		port:         cfg.Port,
		eventBus:     cfg.EventBus,
		negotiations: cfg.Negotiations,
		sessions:     cfg.Sessions,
		scouting:     cfg.Scouting,
		snapshots:    cfg.Snapshots,
	}

	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.DB, cfg.Backups, cfg.EventManager)

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

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

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

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Events stream (SSE) - must be before other routes for proper handling
		eventsStreamHandler := NewEventsStreamHandler(s.eventBus, s.log)
		r.Get("/events/stream", eventsStreamHandler.ServeHTTP)

		// Negotiation sessions
		negotiationHandlers := negotiationhandlers.NewHandler(s.negotiations, s.sessions, s.log)
		negotiationHandlers.RegisterRoutes(r)

		// Scouting reports and shortlists
		scoutingHandlers := scoutinghandlers.NewHandler(s.scouting, s.cfg.CurrentSeason, s.log)
		scoutingHandlers.RegisterRoutes(r)

		// Market analytics
		marketHandlers := markethandlers.NewHandler(s.snapshots, s.cfg.CurrentSeason, s.log)
		marketHandlers.RegisterRoutes(r)

		// System monitoring and operations
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Get("/backups", s.systemHandlers.HandleListBackups)
			r.Post("/backup", s.systemHandlers.HandleTriggerBackup)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
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
