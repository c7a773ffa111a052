// Package server provides the HTTP API for matchmaker.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/matchmaker/internal/catalog"
	"github.com/hyperjump/matchmaker/internal/config"
	"github.com/hyperjump/matchmaker/internal/engine"
	"github.com/hyperjump/matchmaker/internal/metrics"
	"github.com/hyperjump/matchmaker/internal/storage"
)

// Server is the HTTP server for the matchmaker API.
type Server struct {
	engine  *engine.Engine
	storage storage.Storage
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. cat and m may be nil.
func NewServer(
	eng *engine.Engine,
	store storage.Storage,
	cat *catalog.Catalog,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  eng,
		storage: store,
		catalog: cat,
		metrics: m,
		config:  cfg,
		logger:  logger,
	}
}

// Router builds the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/match", s.handleMatch)
	r.Get("/api/v1/rfqs/{id}/recommendations", s.handleRFQRecommendations)
	r.Get("/api/v1/recommendations", s.handleListRecommendations)
	r.Get("/api/v1/recommendations/{id}", s.handleGetRecommendation)
	r.Post("/api/v1/catalog/reload", s.handleCatalogReload)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	if s.metrics != nil && s.config.Metrics.EnabledOrDefault() {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// instrument records request counts and latencies by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(r.Method, route, status, time.Since(start))
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
