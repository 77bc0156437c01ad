// Package pipeline drives one batch run end to end: load, filter, rewrite,
// merge, write, summarize.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
	"ShopifySEO/internal/rewrite"
)

// RunnerDeps wires the driven adapters into the batch runner. Repository is
// optional; a nil repository simply skips run-history persistence.
type RunnerDeps struct {
	Engine     *rewrite.Engine
	Repository ports.RunRepository
	Logger     *slog.Logger
}

// Runner orchestrates full batch runs. It is safe to reuse across runs.
type Runner struct {
	cfg        config.PipelineConfig
	engine     *rewrite.Engine
	repository ports.RunRepository
	logger     *slog.Logger
}

// NewRunner constructs the orchestration component.
func NewRunner(cfg config.PipelineConfig, deps RunnerDeps) *Runner {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		engine:     deps.Engine,
		repository: deps.Repository,
		logger:     logger,
	}
}

// Run executes one batch over the source and writes the merged catalog to the
// sink. Per-record rewrite failures are tallied, never fatal; load and write
// failures abort the run. Cancellation stops dispatching rewrites and flushes
// whatever was resolved, which still counts as a successful run.
func (r *Runner) Run(ctx context.Context, source ports.RecordSource, sink ports.RecordSink) domain.ProcessingResult {
	start := time.Now()

	catalog, err := source.Load(ctx)
	if err != nil {
		r.logger.Error("load input failed", "error", err)
		return r.failed(ctx, start, err)
	}

	result := domain.ProcessingResult{
		TotalProducts: len(catalog.Records),
	}
	for _, rec := range catalog.Records {
		if rec.IsActive() {
			result.ActiveProducts++
		}
	}

	outcomes := r.rewriteEligible(ctx, catalog)

	for i, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		if outcome.Success {
			catalog.SetSEOTitle(i, outcome.NewTitle)
			result.EditedTitles++
			continue
		}
		result.Failures = append(result.Failures, domain.RewriteFailure{
			Row:      i + 1,
			Title:    outcome.OriginalTitle,
			Reason:   outcome.Reason,
			Attempts: outcome.Attempts,
		})
	}

	// Output is flushed even when the run was cancelled mid-flight, so the
	// write must not inherit the cancellation.
	writeCtx := context.WithoutCancel(ctx)
	if err := sink.Write(writeCtx, catalog); err != nil {
		r.logger.Error("write output failed", "error", err)
		return r.failed(ctx, start, err)
	}

	result.Success = true
	result.Duration = time.Since(start)
	result.OutputFile = sink.Path()

	r.logger.Info("run finished",
		"total", result.TotalProducts,
		"active", result.ActiveProducts,
		"edited", result.EditedTitles,
		"failed", len(result.Failures),
		"duration", result.Duration)

	r.saveRun(ctx, source, result)
	return result
}

// rewriteEligible fans eligible records out over a bounded worker group. The
// outcomes slice is index-aligned with the catalog, so original row order
// survives concurrent dispatch.
func (r *Runner) rewriteEligible(ctx context.Context, catalog *domain.Catalog) []*domain.RewriteOutcome {
	outcomes := make([]*domain.RewriteOutcome, len(catalog.Records))

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)

	for i, rec := range catalog.Records {
		if !Eligible(rec, r.cfg.MaxTitleLength) {
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = &domain.RewriteOutcome{
					OriginalTitle: rec.Title,
					Reason:        domain.ReasonCanceled,
				}
				return nil
			}
			outcome := r.engine.Rewrite(ctx, rec)
			outcomes[i] = &outcome
			return nil
		})
	}

	// Workers never return errors; failures live in the outcomes.
	_ = g.Wait()
	return outcomes
}

func (r *Runner) failed(ctx context.Context, start time.Time, err error) domain.ProcessingResult {
	result := domain.ProcessingResult{
		Success:      false,
		Duration:     time.Since(start),
		ErrorMessage: err.Error(),
	}
	r.saveRun(ctx, nil, result)
	return result
}

func (r *Runner) saveRun(ctx context.Context, source ports.RecordSource, result domain.ProcessingResult) {
	if r.repository == nil {
		return
	}

	record := domain.RunRecord{
		OutputFile:     result.OutputFile,
		TotalProducts:  result.TotalProducts,
		ActiveProducts: result.ActiveProducts,
		EditedTitles:   result.EditedTitles,
		Duration:       result.Duration,
		Success:        result.Success,
		ErrorMessage:   result.ErrorMessage,
		CreatedAt:      time.Now().UTC(),
	}
	if named, ok := source.(interface{ Path() string }); ok {
		record.InputFile = named.Path()
	}

	if err := r.repository.SaveRun(context.WithoutCancel(ctx), record); err != nil {
		r.logger.Warn("persist run history failed", "error", err)
	}
}
