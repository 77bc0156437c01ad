package domain

import "time"

// FailureReason classifies why a rewrite attempt (or a whole record) failed.
type FailureReason string

const (
	ReasonTimeout         FailureReason = "timeout"
	ReasonEmptyResponse   FailureReason = "empty-response"
	ReasonLengthViolation FailureReason = "length-violation"
	ReasonBackendError    FailureReason = "backend-error"
	// ReasonCanceled marks records left unresolved because the run was
	// cancelled before their rewrite completed.
	ReasonCanceled FailureReason = "canceled"
)

// RewriteOutcome is the per-record result of the rewrite engine.
type RewriteOutcome struct {
	OriginalTitle string
	NewTitle      string
	Success       bool
	Attempts      int
	Reason        FailureReason
}

// RewriteFailure records one record the engine gave up on, for diagnostics.
// Row is the 1-based data row number in the input file.
type RewriteFailure struct {
	Row      int           `json:"row"`
	Title    string        `json:"title"`
	Reason   FailureReason `json:"reason"`
	Attempts int           `json:"attempts"`
}

// ProcessingResult summarizes one full batch run.
type ProcessingResult struct {
	Success        bool             `json:"success"`
	TotalProducts  int              `json:"total_products"`
	ActiveProducts int              `json:"active_products"`
	EditedTitles   int              `json:"edited_titles"`
	Duration       time.Duration    `json:"duration"`
	OutputFile     string           `json:"output_file,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
	Failures       []RewriteFailure `json:"failures,omitempty"`
}

// RunRecord is the persisted audit snapshot of a completed run.
type RunRecord struct {
	InputFile      string
	OutputFile     string
	TotalProducts  int
	ActiveProducts int
	EditedTitles   int
	Duration       time.Duration
	Success        bool
	ErrorMessage   string
	CreatedAt      time.Time
}
