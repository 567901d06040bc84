package analyses

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/isoguard/isoguard/internal/documents"
	"github.com/isoguard/isoguard/internal/scorer"
	"github.com/isoguard/isoguard/pkg/pagination"
	"github.com/isoguard/isoguard/pkg/query"
	"github.com/isoguard/isoguard/pkg/repository"
)

type repo struct {
	db           *sql.DB
	logger       *slog.Logger
	pagination   pagination.Config
	orchestrator *Orchestrator
}

// New creates an analysis repository implementing the System interface.
// external may be nil when no provider is configured.
func New(
	db *sql.DB,
	docs documents.System,
	external scorer.Scorer,
	logger *slog.Logger,
	pagination pagination.Config,
	batchSize int,
) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
	r.orchestrator = NewOrchestrator(r, docs, external, logger, batchSize)
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "TaxonomyTitle", "Summary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Run(ctx context.Context, cmd RunCommand) (*Analysis, error) {
	return r.orchestrator.Execute(ctx, cmd)
}

func (r *repo) RunBatch(ctx context.Context, cmd BatchCommand) ([]BatchResult, error) {
	return r.orchestrator.ExecuteBatch(ctx, cmd)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM analyses WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}

// Save upserts an analysis record by id, writing each state transition as
// the orchestrator drives it.
func (r *repo) Save(ctx context.Context, a *Analysis) error {
	findings, err := marshalColumn(a.Findings)
	if err != nil {
		return fmt.Errorf("encode findings: %w", err)
	}
	recommendations, err := marshalColumn(a.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	gaps, err := marshalColumn(a.Gaps)
	if err != nil {
		return fmt.Errorf("encode gaps: %w", err)
	}
	comments, err := marshalColumn(a.Comments)
	if err != nil {
		return fmt.Errorf("encode comments: %w", err)
	}
	controlScores, err := marshalColumn(a.ControlScores)
	if err != nil {
		return fmt.Errorf("encode control scores: %w", err)
	}
	segmentRefs, err := marshalColumn(a.SegmentRefs)
	if err != nil {
		return fmt.Errorf("encode segment refs: %w", err)
	}

	const q = `
		INSERT INTO analyses(
			id, document_id, taxonomy_id, taxonomy_title, status, verdict,
			score, summary, findings, recommendations, gaps, comments,
			control_scores, segment_refs, error_message, created_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			verdict = EXCLUDED.verdict,
			score = EXCLUDED.score,
			summary = EXCLUDED.summary,
			findings = EXCLUDED.findings,
			recommendations = EXCLUDED.recommendations,
			gaps = EXCLUDED.gaps,
			comments = EXCLUDED.comments,
			control_scores = EXCLUDED.control_scores,
			segment_refs = EXCLUDED.segment_refs,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at,
			updated_at = now()`

	_, err = r.db.ExecContext(ctx, q,
		a.ID,
		a.DocumentID,
		a.TaxonomyID,
		a.TaxonomyTitle,
		a.Status,
		a.Verdict,
		a.Score,
		a.Summary,
		findings,
		recommendations,
		gaps,
		comments,
		controlScores,
		segmentRefs,
		a.ErrorMessage,
		a.CreatedAt,
		a.CompletedAt,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return nil
}
