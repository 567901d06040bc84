package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/isoguard/isoguard/internal/extraction"
	"github.com/isoguard/isoguard/internal/segmenter"
	"github.com/isoguard/isoguard/pkg/pagination"
	"github.com/isoguard/isoguard/pkg/query"
	"github.com/isoguard/isoguard/pkg/repository"
	"github.com/isoguard/isoguard/pkg/storage"
)

type repo struct {
	db            *sql.DB
	storage       storage.System
	logger        *slog.Logger
	pagination    pagination.Config
	defaultBounds SegmentBounds
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	defaultBounds SegmentBounds,
) System {
	return &repo{
		db:            db,
		storage:       store,
		logger:        logger.With("system", "documents"),
		pagination:    pagination,
		defaultBounds: defaultBounds,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, file_type, size_bytes, page_count, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + returningColumns

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		cmd.FileType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		StatusUploaded,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename)

	return r.process(ctx, &d, cmd.Data, cmd.Bounds)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM segments WHERE document_id = $1", id); err != nil {
			return struct{}{}, err
		}
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Reprocess(ctx context.Context, id uuid.UUID, bounds SegmentBounds) (*Document, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	blob, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download document blob: %w", err)
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("read document blob: %w", err)
	}

	return r.process(ctx, doc, data, bounds)
}

func (r *repo) Segments(ctx context.Context, documentID uuid.UUID) ([]Segment, error) {
	qb := query.NewBuilder(segmentProjection, segmentSort)
	qb.WhereEquals("DocumentID", documentID)

	q, args := qb.Build()
	segments, err := repository.QueryMany(ctx, r.db, q, args, scanSegment)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}

	return segments, nil
}

func (r *repo) CombinedText(ctx context.Context, documentID uuid.UUID) (string, error) {
	segments, err := r.Segments(ctx, documentID)
	if err != nil {
		return "", err
	}

	if len(segments) == 0 {
		return "", ErrNotProcessed
	}

	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Content
	}

	return strings.Join(parts, "\n\n"), nil
}

// process runs extraction and segmentation for a document, replacing its
// prior segments atomically. Extraction or segmentation failure marks the
// document failed with the error message rather than returning an error.
func (r *repo) process(ctx context.Context, doc *Document, data []byte, bounds SegmentBounds) (*Document, error) {
	bounds.ApplyDefaults(r.defaultBounds)

	if err := r.setStatus(ctx, doc.ID, StatusProcessing); err != nil {
		return nil, err
	}

	text, err := extraction.Extract(data, extraction.FileType(doc.FileType))
	if err != nil {
		r.logger.Warn("text extraction failed", "id", doc.ID, "error", err)
		return r.markFailed(ctx, doc.ID, fmt.Sprintf("text extraction failed: %v", err))
	}

	segments, err := segmenter.Split(text, bounds.MinSize, bounds.MaxSize)
	if err != nil {
		r.logger.Warn("segmentation failed", "id", doc.ID, "error", err)
		return r.markFailed(ctx, doc.ID, fmt.Sprintf("segmentation failed: %v", err))
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := replaceSegments(ctx, tx, doc.ID, segments); err != nil {
			return struct{}{}, err
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE documents
			SET status = $2, error_message = NULL, total_segments = $3,
			    total_characters = $4, processed_at = $5, updated_at = now()
			WHERE id = $1`,
			doc.ID, StatusProcessed, len(segments), len(text), time.Now().UTC(),
		)
		return struct{}{}, err
	})
	if err != nil {
		return nil, fmt.Errorf("persist segments: %w", err)
	}

	r.logger.Info("document processed",
		"id", doc.ID,
		"segments", len(segments),
		"characters", len(text),
	)

	return r.Find(ctx, doc.ID)
}

// replaceSegments deletes a document's segments and inserts the new batch
// within the caller's transaction so partial segment sets are never visible.
func replaceSegments(ctx context.Context, tx *sql.Tx, documentID uuid.UUID, segments []segmenter.Segment) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM segments WHERE document_id = $1", documentID); err != nil {
		return fmt.Errorf("delete prior segments: %w", err)
	}

	const insert = `
		INSERT INTO segments(id, document_id, sequence_index, content, heading, start_offset, end_offset, char_count, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, s := range segments {
		var heading *string
		if s.Heading != "" {
			heading = &s.Heading
		}

		if _, err := tx.ExecContext(ctx, insert,
			uuid.New(),
			documentID,
			s.SequenceIndex,
			s.Content,
			heading,
			s.StartOffset,
			s.EndOffset,
			s.CharCount(),
			s.WordCount(),
		); err != nil {
			return fmt.Errorf("insert segment %d: %w", s.SequenceIndex, err)
		}
	}

	return nil
}

func (r *repo) setStatus(ctx context.Context, id uuid.UUID, status string) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE documents SET status = $2, updated_at = now() WHERE id = $1",
		id, status,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID, message string) (*Document, error) {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE documents SET status = $2, error_message = $3, updated_at = now() WHERE id = $1",
		id, StatusFailed, message,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
