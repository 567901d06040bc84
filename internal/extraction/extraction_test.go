package extraction

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        FileType
		wantErr     bool
	}{
		{"txt extension", "policy.txt", "", TypeText, false},
		{"md extension", "README.md", "", TypeMarkdown, false},
		{"docx extension", "handbook.DOCX", "", TypeDOCX, false},
		{"pdf extension", "report.pdf", "", TypePDF, false},
		{"content type fallback", "upload", "text/plain; charset=utf-8", TypeText, false},
		{"docx content type", "upload", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", TypeDOCX, false},
		{"unsupported", "archive.zip", "application/zip", "", true},
		{"legacy doc", "old.doc", "application/msword", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.filename, tt.contentType)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("expected ErrUnsupportedType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectType: %v", err)
			}
			if got != tt.want {
				t.Errorf("type = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf-8", []byte("hello world"), "hello world"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...), "hello"},
		{"utf-16 le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf-16 be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"latin-1 fallback", []byte{'c', 'a', 'f', 0xE9}, "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.data, TypeText)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Access Control</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>All access requests </w:t></w:r>
      <w:r><w:t>require approval.</w:t></w:r>
    </w:p>
    <w:p></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Role</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Owner</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

	data := buildDOCX(t, documentXML)

	text, err := Extract(data, TypeDOCX)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !strings.Contains(text, "## Access Control") {
		t.Errorf("heading not marked: %q", text)
	}
	if !strings.Contains(text, "All access requests require approval.") {
		t.Errorf("runs not joined: %q", text)
	}
	if !strings.Contains(text, "Role | Owner") {
		t.Errorf("table row missing: %q", text)
	}
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	if _, err := Extract(buf.Bytes(), TypeDOCX); !errors.Is(err, ErrUndecodable) {
		t.Errorf("expected ErrUndecodable, got %v", err)
	}
}

func TestExtractDOCXNotAnArchive(t *testing.T) {
	if _, err := Extract([]byte("plain text"), TypeDOCX); err == nil {
		t.Error("expected error for non-zip payload")
	}
}

func TestExtractPDFUnsupported(t *testing.T) {
	if _, err := Extract([]byte("%PDF-1.7"), TypePDF); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}
