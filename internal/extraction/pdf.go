package extraction

import (
	"bytes"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFPageCount returns the page count for PDF uploads, or nil when the
// content is not a PDF or cannot be parsed. Parse failures are logged and
// tolerated; page count is informational metadata.
func PDFPageCount(logger *slog.Logger, data []byte, fileType FileType) *int {
	if fileType != TypePDF {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
