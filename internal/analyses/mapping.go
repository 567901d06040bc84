package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/isoguard/isoguard/pkg/query"
	"github.com/isoguard/isoguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("taxonomy_id", "TaxonomyID").
	Project("taxonomy_title", "TaxonomyTitle").
	Project("status", "Status").
	Project("verdict", "Verdict").
	Project("score", "Score").
	Project("summary", "Summary").
	Project("findings", "Findings").
	Project("recommendations", "Recommendations").
	Project("gaps", "Gaps").
	Project("comments", "Comments").
	Project("control_scores", "ControlScores").
	Project("segment_refs", "SegmentRefs").
	Project("error_message", "ErrorMessage").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored; all filters use exact matching.
type Filters struct {
	DocumentID *string `json:"document_id,omitempty"`
	TaxonomyID *int    `json:"taxonomy_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	Verdict    *string `json:"verdict,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("TaxonomyID", f.TaxonomyID).
		WhereEquals("Status", f.Status).
		WhereEquals("Verdict", f.Verdict)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if d := values.Get("document_id"); d != "" {
		f.DocumentID = &d
	}

	if t := values.Get("taxonomy_id"); t != "" {
		if v, err := strconv.Atoi(t); err == nil {
			f.TaxonomyID = &v
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if v := values.Get("verdict"); v != "" {
		f.Verdict = &v
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var findings, recommendations, gaps, comments, controlScores, segmentRefs []byte

	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.TaxonomyID,
		&a.TaxonomyTitle,
		&a.Status,
		&a.Verdict,
		&a.Score,
		&a.Summary,
		&findings,
		&recommendations,
		&gaps,
		&comments,
		&controlScores,
		&segmentRefs,
		&a.ErrorMessage,
		&a.CreatedAt,
		&a.CompletedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	columns := []struct {
		name    string
		payload []byte
		target  any
	}{
		{"findings", findings, &a.Findings},
		{"recommendations", recommendations, &a.Recommendations},
		{"gaps", gaps, &a.Gaps},
		{"comments", comments, &a.Comments},
		{"control_scores", controlScores, &a.ControlScores},
		{"segment_refs", segmentRefs, &a.SegmentRefs},
	}

	for _, c := range columns {
		if len(c.payload) == 0 {
			continue
		}
		if err := json.Unmarshal(c.payload, c.target); err != nil {
			return a, fmt.Errorf("decode %s column: %w", c.name, err)
		}
	}

	return a, nil
}

// marshalColumn encodes a list or map field for a JSONB column, writing
// empty collections instead of NULL.
func marshalColumn(v any) ([]byte, error) {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return []byte("[]"), nil
		}
	case []uuid.UUID:
		if t == nil {
			return []byte("[]"), nil
		}
	case map[string]float64:
		if t == nil {
			return []byte("{}"), nil
		}
	}
	return json.Marshal(v)
}
