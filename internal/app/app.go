// Package app wires configuration to adapters and lifecycle orchestration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/infrastructure/cleanup"
	"ShopifySEO/internal/infrastructure/jobs"
	"ShopifySEO/internal/infrastructure/llm"
	"ShopifySEO/internal/infrastructure/storage"
	"ShopifySEO/internal/logging"
	"ShopifySEO/internal/pipeline"
	"ShopifySEO/internal/ports"
	"ShopifySEO/internal/rewrite"
	"ShopifySEO/internal/server"
)

// Application holds the fully wired service: pipeline runner, HTTP surface
// and the temp-dir sweeper.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sql.DB
	runner  *pipeline.Runner
	server  *server.Server
	sweeper *cleanup.Sweeper
}

// New builds a runnable application instance. Postgres run history and the
// Redis job store are attached only when configured; the service degrades to
// in-process bookkeeping without them.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	generator, err := llm.NewGenerator(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure llm backend: %w", err)
	}
	engine := rewrite.NewEngine(generator, cfg.Pipeline, baseLogger.With("component", "rewrite"))

	var (
		db   *sql.DB
		runs ports.RunRepository
	)
	if cfg.Database.DSN != "" {
		db, err = storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect run history store: %w", err)
		}
		runs = storage.NewPostgresRepository(db)
	}

	var jobStore ports.JobStore
	if cfg.Redis.Addr != "" {
		redisStore := jobs.NewRedisStore(cfg.Redis)
		if err := redisStore.Ping(ctx); err != nil {
			if db != nil {
				db.Close()
			}
			return nil, fmt.Errorf("connect job store: %w", err)
		}
		jobStore = redisStore
	} else {
		jobStore = jobs.NewMemoryStore()
	}

	runner := pipeline.NewRunner(cfg.Pipeline, pipeline.RunnerDeps{
		Engine:     engine,
		Repository: runs,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		db:     db,
		runner: runner,
		server: server.New(cfg, runner, jobStore, runs, baseLogger.With("component", "server")),
		sweeper: cleanup.NewSweeper(cfg.Pipeline.TempDir, cfg.Cleanup.Retention(),
			cfg.Cleanup.Interval(), baseLogger.With("component", "cleanup")),
	}, nil
}

// Runner exposes the batch runner for one-shot CLI runs.
func (a *Application) Runner() *pipeline.Runner {
	return a.runner
}

// Run serves HTTP and sweeps expired files until the context ends.
func (a *Application) Run(ctx context.Context) error {
	a.sweeper.Start(ctx)
	defer a.sweeper.Stop()

	return a.server.ListenAndServe(ctx)
}

// Close releases held connections.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
