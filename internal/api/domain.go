package api

import (
	"errors"
	"fmt"

	"github.com/isoguard/isoguard/internal/analyses"
	"github.com/isoguard/isoguard/internal/documents"
	"github.com/isoguard/isoguard/internal/scorer"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Analyses  analyses.System
}

// NewDomain creates all domain systems from the API runtime. When no
// external scorer is configured, analyses fall back to heuristic scoring.
func NewDomain(runtime *Runtime) (*Domain, error) {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		documents.SegmentBounds{
			MinSize: runtime.Analysis.MinSegmentSize,
			MaxSize: runtime.Analysis.MaxSegmentSize,
		},
	)

	var external scorer.Scorer
	anthropic, err := scorer.NewAnthropic(&runtime.Analysis.Scorer, runtime.Logger)
	switch {
	case errors.Is(err, scorer.ErrDisabled):
		runtime.Logger.Info("external scorer disabled, using heuristic scoring")
	case err != nil:
		return nil, fmt.Errorf("scorer init failed: %w", err)
	default:
		external = anthropic
	}

	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		docsSystem,
		external,
		runtime.Logger,
		runtime.Pagination,
		runtime.Analysis.BatchConcurrency,
	)

	return &Domain{
		Documents: docsSystem,
		Analyses:  analysesSystem,
	}, nil
}
