// Package server serves portfolio dashboards over HTTP.
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

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/store"
)

// Config holds server configuration.
type Config struct {
	Addr   string
	Log    zerolog.Logger
	Store  store.Store
	Source portfolio.Source
	Home   string
	// Load and Options are used to compute every dashboard.
	Load    portfolio.LoadOptions
	Options portfolio.Options
}

// Server represents the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	// market data loading retries with backoff and may take a while
	s.router.Use(middleware.Timeout(90 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/", s.handleOwners)
	s.router.Get("/{owner}", s.handleDashboardPage)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/owners", s.handleOwnersAPI)
		r.Get("/{owner}/dashboard", s.handleDashboardAPI)
	})
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

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
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// dashboard computes the dashboard of owner, store parse issues first.
func (s *Server) dashboard(ctx context.Context, owner string) (*portfolio.Dashboard, error) {
	p, issues, err := store.LoadPortfolio(ctx, s.cfg.Store, owner, s.cfg.Home)
	if err != nil {
		return nil, fmt.Errorf("cannot load transactions of %q: %w", owner, err)
	}
	d := portfolio.Compute(ctx, s.cfg.Source, p, s.cfg.Load, s.cfg.Options)
	d.Issues = append(issues, d.Issues...)
	return d, nil
}
