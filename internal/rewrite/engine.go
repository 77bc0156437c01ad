package rewrite

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/htmltext"
	"ShopifySEO/internal/ports"
)

// Body text beyond this adds latency without adding keywords.
const bodyPromptRunes = 600

// Engine rewrites one record per call. It never mutates the record; applying
// the outcome is the batch runner's job.
type Engine struct {
	gen    ports.Generator
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewEngine wires a generation backend with the run's tunables.
func NewEngine(gen ports.Generator, cfg config.PipelineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, cfg: cfg, logger: logger}
}

// Rewrite asks the backend for a conforming title, retrying failed attempts
// up to MaxRetries extra times. The same request is reused on every attempt;
// each attempt gets its own deadline. A candidate longer than MaxTitleLength
// is rejected outright, never truncated.
func (e *Engine) Rewrite(ctx context.Context, rec domain.ProductRecord) domain.RewriteOutcome {
	req := ports.GenerateRequest{
		System:    SystemInstructions(e.cfg.MaxTitleLength),
		Prompt:    UserPrompt(rec.Title, htmltext.Flatten(rec.BodyHTML, bodyPromptRunes), e.cfg.MaxTitleLength),
		MaxLength: e.cfg.MaxTitleLength,
	}

	outcome := domain.RewriteOutcome{OriginalTitle: rec.Title}

	maxAttempts := e.cfg.MaxRetries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			outcome.Reason = domain.ReasonCanceled
			return outcome
		}
		outcome.Attempts = attempt

		title, reason := e.attempt(ctx, req)
		if reason == "" {
			outcome.Success = true
			outcome.NewTitle = title
			outcome.Reason = ""
			return outcome
		}

		outcome.Reason = reason
		e.logger.Debug("rewrite attempt failed",
			"title", rec.Title, "attempt", attempt, "reason", reason)

		if reason == domain.ReasonCanceled {
			return outcome
		}
	}

	return outcome
}

func (e *Engine) attempt(ctx context.Context, req ports.GenerateRequest) (string, domain.FailureReason) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout())
	defer cancel()

	raw, err := e.gen.Generate(attemptCtx, req)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return "", domain.ReasonCanceled
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
			return "", domain.ReasonTimeout
		default:
			return "", domain.ReasonBackendError
		}
	}

	title := CleanTitle(ExtractTitle(raw))
	if title == "" {
		return "", domain.ReasonEmptyResponse
	}
	if utf8.RuneCountInString(title) > e.cfg.MaxTitleLength {
		return "", domain.ReasonLengthViolation
	}

	return title, ""
}
