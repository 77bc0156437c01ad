// Package server exposes the batch pipeline as a small upload/download HTTP
// service.
package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/pipeline"
	"ShopifySEO/internal/ports"
)

const version = "1.0.0"

//go:embed index.html
var indexPage embed.FS

// Server wires the runner and job bookkeeping behind HTTP routes.
type Server struct {
	cfg    config.Config
	runner *pipeline.Runner
	jobs   ports.JobStore
	runs   ports.RunRepository
	logger *slog.Logger
	router chi.Router
}

// New builds the route table. The runs repository may be nil, which disables
// the history endpoint.
func New(cfg config.Config, runner *pipeline.Runner, jobStore ports.JobStore, runs ports.RunRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		jobs:   jobStore,
		runs:   runs,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/", s.handleIndex)
	r.Post("/api/upload", s.handleUpload)
	r.Get("/api/download/{jobID}", s.handleDownload)
	r.Get("/api/status/{jobID}", s.handleStatus)
	r.Get("/api/runs", s.handleRuns)
	r.Get("/api/health", s.handleHealth)

	s.router = r
	return s
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the context ends, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
