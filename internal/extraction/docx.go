package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docx documents are zip archives; the text lives in word/document.xml as
// paragraphs of runs. Table cell text is appended after the paragraphs,
// one row per line with cells joined by " | ".

type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Style docxStyle `xml:"pPr>pStyle"`
	Runs  []docxRun `xml:"r"`
}

type docxStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	Text []string `xml:"t"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
	}
	return strings.TrimSpace(b.String())
}

func (p docxParagraph) isHeading() bool {
	return strings.HasPrefix(p.Style.Val, "Heading")
}

func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var doc docxDocument
	found := false

	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}

		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}

		if err := xml.Unmarshal(payload, &doc); err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		found = true
		break
	}

	if !found {
		return "", fmt.Errorf("%w: missing word/document.xml", ErrUndecodable)
	}

	var parts []string

	for _, p := range doc.Body.Paragraphs {
		text := p.text()
		if text == "" {
			continue
		}
		if p.isHeading() {
			text = "## " + text
		}
		parts = append(parts, text)
	}

	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellText []string
				for _, p := range cell.Paragraphs {
					if t := p.text(); t != "" {
						cellText = append(cellText, t)
					}
				}
				if len(cellText) > 0 {
					cells = append(cells, strings.Join(cellText, " "))
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(parts, "\n\n"), nil
}
