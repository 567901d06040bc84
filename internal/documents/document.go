// Package documents implements the document domain for isoguard. It covers
// upload and blob storage, text extraction, segmentation into bounded
// chunks, and the document processing lifecycle.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document processing statuses.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

// Document represents an uploaded compliance document with its metadata,
// blob storage reference, and processing state.
type Document struct {
	ID              uuid.UUID  `json:"id"`
	Filename        string     `json:"filename"`
	ContentType     string     `json:"content_type"`
	FileType        string     `json:"file_type"`
	SizeBytes       int64      `json:"size_bytes"`
	PageCount       *int       `json:"page_count"`
	StorageKey      string     `json:"storage_key"`
	Status          string     `json:"status"`
	ErrorMessage    *string    `json:"error_message"`
	TotalSegments   int        `json:"total_segments"`
	TotalCharacters int        `json:"total_characters"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	ProcessedAt     *time.Time `json:"processed_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Segment is a persisted slice of a document's extracted text. Segments for
// one document are created as a batch and fully replaced on reprocessing,
// never patched individually.
type Segment struct {
	ID            uuid.UUID `json:"id"`
	DocumentID    uuid.UUID `json:"document_id"`
	SequenceIndex int       `json:"sequence_index"`
	Content       string    `json:"content"`
	Heading       *string   `json:"heading"`
	StartOffset   int       `json:"start_offset"`
	EndOffset     int       `json:"end_offset"`
	CharCount     int       `json:"char_count"`
	WordCount     int       `json:"word_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// SegmentBounds carries the size bounds for segmentation. Zero values take
// the documented defaults of 100 and 2000 characters.
type SegmentBounds struct {
	MinSize int `json:"min_segment_size"`
	MaxSize int `json:"max_segment_size"`
}

// ApplyDefaults fills unset bounds with the documented defaults.
func (b *SegmentBounds) ApplyDefaults(defaults SegmentBounds) {
	if b.MinSize == 0 {
		b.MinSize = defaults.MinSize
	}
	if b.MaxSize == 0 {
		b.MaxSize = defaults.MaxSize
	}
}

// CreateCommand carries the data needed to upload, register, and process a
// new document. Data holds the raw file bytes. PageCount is optional and
// extracted by the caller for PDF uploads; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	FileType    string
	PageCount   *int
	Bounds      SegmentBounds
}
