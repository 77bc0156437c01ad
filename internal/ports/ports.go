package ports

import (
	"context"

	"ShopifySEO/internal/domain"
)

// GenerateRequest carries everything a text-generation backend needs for one
// completion: the output contract (system), the material (prompt), and the
// rune cap the caller will enforce on the answer.
type GenerateRequest struct {
	System    string
	Prompt    string
	MaxLength int
}

// Generator is the single capability the pipeline consumes from an LLM
// provider. Implementations must honor the context deadline per call.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// RecordSource reads an ordered product catalog from a tabular file.
type RecordSource interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}

// RecordSink writes the processed catalog back out with all-or-nothing
// semantics; Path reports the destination for result bookkeeping.
type RecordSink interface {
	Write(ctx context.Context, catalog *domain.Catalog) error
	Path() string
}

// RunRepository persists completed run summaries for audit.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// JobStore keeps upload jobs addressable for status and download lookups.
type JobStore interface {
	Create(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
}
