package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/isoguard/isoguard/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Reprocess re-extracts and re-segments the stored document with the
	// given bounds, atomically replacing its prior segments.
	Reprocess(ctx context.Context, id uuid.UUID, bounds SegmentBounds) (*Document, error)

	Segments(ctx context.Context, documentID uuid.UUID) ([]Segment, error)

	// CombinedText joins a document's segment content in sequence order for
	// analysis. Returns ErrNotProcessed when the document has no segments.
	CombinedText(ctx context.Context, documentID uuid.UUID) (string, error)
}
