// Package extraction decodes uploaded document bytes into plain text for
// segmentation. Plain text, markdown, and DOCX payloads are decoded here;
// PDF uploads are validated and counted but their text extraction is
// delegated to an external pipeline.
package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrUndecodable     = errors.New("file content could not be decoded as text")
)

// FileType identifies a supported upload format.
type FileType string

const (
	TypeText     FileType = "txt"
	TypeMarkdown FileType = "md"
	TypeDOCX     FileType = "docx"
	TypePDF      FileType = "pdf"
)

var typesByExtension = map[string]FileType{
	".txt":      TypeText,
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".docx":     TypeDOCX,
	".pdf":      TypePDF,
}

var typesByContentType = map[string]FileType{
	"text/plain":      TypeText,
	"text/markdown":   TypeMarkdown,
	"application/pdf": TypePDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": TypeDOCX,
}

// DetectType resolves the file type from the upload's filename extension,
// falling back to its declared content type.
func DetectType(filename, contentType string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ft, ok := typesByExtension[ext]; ok {
		return ft, nil
	}

	base, _, _ := strings.Cut(contentType, ";")
	if ft, ok := typesByContentType[strings.TrimSpace(base)]; ok {
		return ft, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
}

// Extract decodes file bytes into plain text according to fileType.
// PDF content is not decoded here and returns ErrUnsupportedType.
func Extract(data []byte, fileType FileType) (string, error) {
	switch fileType {
	case TypeText, TypeMarkdown:
		return extractText(data)
	case TypeDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: no text extractor for %q", ErrUnsupportedType, fileType)
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// extractText decodes plain text bytes, handling UTF-8 and UTF-16 byte
// order marks and falling back to Latin-1 for other single-byte content.
func extractText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[2:], false), nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[2:], true), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func decodeUTF16(data []byte, bigEndian bool) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	return string(utf16.Decode(units))
}
