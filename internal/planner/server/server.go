// Package server exposes the planner engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planforge/factory-planner/internal/planner/engine"
	"github.com/planforge/factory-planner/internal/planner/export"
	"github.com/planforge/factory-planner/internal/planner/metrics"
)

// planCacheSize bounds the number of computed plans kept for retrieval.
const planCacheSize = 256

// maxRequestBytes caps request bodies; resolve requests are small.
const maxRequestBytes = 1 << 20

// Server serves the planner API.
type Server struct {
	engine   *engine.Engine
	logger   *slog.Logger
	validate *validator.Validate
	plans    *lru.Cache[string, *export.Envelope]
	http     *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(eng *engine.Engine, logger *slog.Logger, addr string) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	plans, err := lru.New[string, *export.Envelope](planCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating plan cache: %w", err)
	}

	s := &Server{
		engine:   eng,
		logger:   logger,
		validate: validator.New(),
		plans:    plans,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// routes builds the router and middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestSizeLimit(maxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", s.handleCreatePlan)
			r.Post("/import", s.handleImportPlan)
			r.Get("/{id}", s.handleGetPlan)
		})

		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}/uses", s.handleItemUses)
		r.Get("/recipes", s.handleListRecipes)
		r.Get("/recipes/{id}", s.handleGetRecipe)
	})

	return r
}

// Run serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestSizeLimit rejects request bodies larger than limit bytes.
func requestSizeLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs each request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
