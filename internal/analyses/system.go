package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/isoguard/isoguard/pkg/pagination"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)

	// Run executes one analysis synchronously to a terminal state.
	Run(ctx context.Context, cmd RunCommand) (*Analysis, error)

	// RunBatch executes one analysis per taxonomy id with bounded
	// concurrency, reporting per-checklist outcomes.
	RunBatch(ctx context.Context, cmd BatchCommand) ([]BatchResult, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
