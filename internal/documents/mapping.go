package documents

import (
	"net/url"

	"github.com/isoguard/isoguard/pkg/query"
	"github.com/isoguard/isoguard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("file_type", "FileType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("error_message", "ErrorMessage").
	Project("total_segments", "TotalSegments").
	Project("total_characters", "TotalCharacters").
	Project("uploaded_at", "UploadedAt").
	Project("processed_at", "ProcessedAt").
	Project("updated_at", "UpdatedAt")

const returningColumns = `id, filename, content_type, file_type, size_bytes,
	page_count, storage_key, status, error_message, total_segments,
	total_characters, uploaded_at, processed_at, updated_at`

var segmentProjection = query.
	NewProjectionMap("public", "segments", "s").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("sequence_index", "SequenceIndex").
	Project("content", "Content").
	Project("heading", "Heading").
	Project("start_offset", "StartOffset").
	Project("end_offset", "EndOffset").
	Project("char_count", "CharCount").
	Project("word_count", "WordCount").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

var segmentSort = query.SortField{Field: "SequenceIndex"}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status and FileType use exact matching;
// Filename uses case-insensitive contains matching.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Filename *string `json:"filename,omitempty"`
	FileType *string `json:"file_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("FileType", f.FileType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ft := values.Get("file_type"); ft != "" {
		f.FileType = &ft
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.FileType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.ErrorMessage,
		&d.TotalSegments,
		&d.TotalCharacters,
		&d.UploadedAt,
		&d.ProcessedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanSegment(s repository.Scanner) (Segment, error) {
	var seg Segment
	err := s.Scan(
		&seg.ID,
		&seg.DocumentID,
		&seg.SequenceIndex,
		&seg.Content,
		&seg.Heading,
		&seg.StartOffset,
		&seg.EndOffset,
		&seg.CharCount,
		&seg.WordCount,
		&seg.CreatedAt,
	)
	return seg, err
}
