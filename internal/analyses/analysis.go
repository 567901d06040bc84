// Package analyses implements the compliance analysis domain for isoguard.
// The orchestrator drives each analysis through pending, processing, and a
// terminal completed or failed state, persisting every transition so
// partial failure is observable.
package analyses

import (
	"time"

	"github.com/google/uuid"
)

// Analysis lifecycle statuses. Completed and failed are terminal; a failed
// analysis is never retried in place, a new request is required.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// emptyContentMessage is the fixed error recorded when a document has no
// text to analyze.
const emptyContentMessage = "No document content to analyze"

// Analysis represents one compliance assessment of a document against a
// taxonomy checklist. Verdict is nil and Score zero until the analysis
// completes; ErrorMessage is set only on failure.
type Analysis struct {
	ID              uuid.UUID          `json:"id"`
	DocumentID      uuid.UUID          `json:"document_id"`
	TaxonomyID      int                `json:"taxonomy_id"`
	TaxonomyTitle   string             `json:"taxonomy_title"`
	Status          string             `json:"status"`
	Verdict         *string            `json:"verdict"`
	Score           float64            `json:"score"`
	Summary         string             `json:"summary"`
	Findings        []string           `json:"findings"`
	Recommendations []string           `json:"recommendations"`
	Gaps            []string           `json:"gaps"`
	Comments        []string           `json:"comments"`
	ControlScores   map[string]float64 `json:"control_scores"`
	SegmentRefs     []uuid.UUID        `json:"segment_refs"`
	ErrorMessage    *string            `json:"error_message"`
	CreatedAt       time.Time          `json:"created_at"`
	CompletedAt     *time.Time         `json:"completed_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// RunCommand requests a single analysis of a document against one
// taxonomy checklist.
type RunCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	TaxonomyID int       `json:"taxonomy_id"`
}

// BatchCommand requests analyses of one document against multiple taxonomy
// checklists. An empty TaxonomyIDs list runs every registered checklist.
type BatchCommand struct {
	DocumentID  uuid.UUID `json:"document_id"`
	TaxonomyIDs []int     `json:"taxonomy_ids"`
}

// BatchResult reports the outcome of a single checklist within a batch run.
// On success Analysis is populated and Error is empty.
type BatchResult struct {
	TaxonomyID int       `json:"taxonomy_id"`
	Analysis   *Analysis `json:"analysis,omitempty"`
	Error      string    `json:"error,omitempty"`
}
