package analyses

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/isoguard/isoguard/internal/documents"
	"github.com/isoguard/isoguard/internal/scorer"
	"github.com/isoguard/isoguard/internal/scoring"
	"github.com/isoguard/isoguard/internal/taxonomy"
)

// Store persists analysis records. Save must be an idempotent upsert by id
// so every state transition can be written as it happens.
type Store interface {
	Save(ctx context.Context, a *Analysis) error
}

// DocumentSource supplies the segment text an analysis scores against.
// documents.System satisfies this interface.
type DocumentSource interface {
	Segments(ctx context.Context, documentID uuid.UUID) ([]documents.Segment, error)
}

// Orchestrator drives analyses through their state machine. External is
// optional; when nil or erroring, the deterministic heuristic scorer is
// used. The external fallback is silent to the caller but logged.
type Orchestrator struct {
	store     Store
	documents DocumentSource
	external  scorer.Scorer
	logger    *slog.Logger
	batchSize int
}

// NewOrchestrator builds an orchestrator. external may be nil; batchSize
// bounds the number of concurrent checklist analyses in a batch run.
func NewOrchestrator(
	store Store,
	docs DocumentSource,
	external scorer.Scorer,
	logger *slog.Logger,
	batchSize int,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 3
	}

	return &Orchestrator{
		store:     store,
		documents: docs,
		external:  external,
		logger:    logger.With("system", "orchestrator"),
		batchSize: batchSize,
	}
}

// Execute runs one analysis to a terminal state. A failed analysis is a
// successful Execute call: scoring problems are recorded on the analysis,
// and only persistence or lookup errors are returned.
func (o *Orchestrator) Execute(ctx context.Context, cmd RunCommand) (*Analysis, error) {
	entry, known := taxonomy.Get(cmd.TaxonomyID)
	if !known {
		// unknown checklist ids score against empty lists rather than erroring
		entry = taxonomy.Entry{ID: cmd.TaxonomyID, Title: fmt.Sprintf("Unknown checklist %d", cmd.TaxonomyID)}
		o.logger.Warn("unknown taxonomy id", "taxonomy_id", cmd.TaxonomyID)
	}

	record := &Analysis{
		ID:            uuid.New(),
		DocumentID:    cmd.DocumentID,
		TaxonomyID:    cmd.TaxonomyID,
		TaxonomyTitle: entry.Title,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := o.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist pending analysis: %w", err)
	}

	record.Status = StatusProcessing
	if err := o.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist processing analysis: %w", err)
	}

	combined, refs, err := o.loadContent(ctx, cmd.DocumentID)
	if err != nil {
		return o.fail(ctx, record, err.Error())
	}
	record.SegmentRefs = refs

	if strings.TrimSpace(combined) == "" {
		return o.fail(ctx, record, emptyContentMessage)
	}

	outcome, err := o.score(ctx, combined, entry)
	if err != nil {
		return o.fail(ctx, record, err.Error())
	}

	verdict := string(outcome.Verdict)
	now := time.Now().UTC()

	record.Verdict = &verdict
	record.Score = outcome.Score
	record.Summary = outcome.Summary
	record.Findings = outcome.Findings
	record.Recommendations = outcome.Recommendations
	record.Gaps = outcome.Gaps
	record.Comments = outcome.Comments
	record.ControlScores = outcome.ControlScores
	record.Status = StatusCompleted
	record.CompletedAt = &now

	if err := o.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist completed analysis: %w", err)
	}

	o.logger.Info("analysis completed",
		"id", record.ID,
		"document_id", record.DocumentID,
		"taxonomy_id", record.TaxonomyID,
		"verdict", verdict,
		"score", record.Score,
	)

	return record, nil
}

// ExecuteBatch runs one analysis per taxonomy id with bounded concurrency.
// Individual failures are reported per entry, never aborting the batch.
func (o *Orchestrator) ExecuteBatch(ctx context.Context, cmd BatchCommand) ([]BatchResult, error) {
	ids := cmd.TaxonomyIDs
	if len(ids) == 0 {
		for _, entry := range taxonomy.All() {
			ids = append(ids, entry.ID)
		}
	}

	results := make([]BatchResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.batchSize)

	for i, taxonomyID := range ids {
		g.Go(func() error {
			record, err := o.Execute(gctx, RunCommand{
				DocumentID: cmd.DocumentID,
				TaxonomyID: taxonomyID,
			})
			if err != nil {
				results[i] = BatchResult{TaxonomyID: taxonomyID, Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{TaxonomyID: taxonomyID, Analysis: record}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (o *Orchestrator) loadContent(ctx context.Context, documentID uuid.UUID) (string, []uuid.UUID, error) {
	segments, err := o.documents.Segments(ctx, documentID)
	if err != nil {
		return "", nil, err
	}

	refs := make([]uuid.UUID, len(segments))
	parts := make([]string, len(segments))
	for i, s := range segments {
		refs[i] = s.ID
		parts[i] = s.Content
	}

	return strings.Join(parts, "\n\n"), refs, nil
}

// score attempts the external provider first when configured, falling back
// to the heuristic scorer on any provider error. Scorer panics are caught
// and surfaced as scoring errors so they terminate the record, not the
// request.
func (o *Orchestrator) score(ctx context.Context, combined string, entry taxonomy.Entry) (outcome scoring.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panic: %v", r)
		}
	}()

	if o.external != nil {
		payload, externalErr := o.external.Score(ctx, combined, entry)
		if externalErr == nil {
			return scoring.Normalize(payload), nil
		}
		o.logger.Warn("external scorer failed, falling back to heuristic",
			"taxonomy_id", entry.ID,
			"error", externalErr,
		)
	}

	return scoring.Score(combined, entry), nil
}

// fail transitions the record to failed with the given message. Verdict and
// score keep their pre-failure defaults and completed_at is never stamped.
func (o *Orchestrator) fail(ctx context.Context, record *Analysis, message string) (*Analysis, error) {
	record.Status = StatusFailed
	record.ErrorMessage = &message

	if err := o.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("persist failed analysis: %w", err)
	}

	o.logger.Warn("analysis failed",
		"id", record.ID,
		"document_id", record.DocumentID,
		"taxonomy_id", record.TaxonomyID,
		"error", message,
	)

	return record, nil
}
