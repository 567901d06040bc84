// Package segmenter implements paragraph-based text segmentation for isoguard.
// It splits extracted document text into bounded, ordered segments with
// position metadata, grouping paragraphs greedily up to a maximum size and
// falling back to sentence-boundary splitting for oversized paragraphs.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"
)

// Default segment size bounds in characters.
const (
	DefaultMinSize = 100
	DefaultMaxSize = 2000
)

// prefixProbe is the number of leading characters used to relocate a
// segment within the normalized source text.
const prefixProbe = 50

// Segment is a bounded slice of a document's extracted text.
// StartOffset and EndOffset are character positions in the normalized
// source text. Heading is empty when no heading was detected.
type Segment struct {
	Content       string `json:"content"`
	StartOffset   int    `json:"start_offset"`
	EndOffset     int    `json:"end_offset"`
	Heading       string `json:"heading,omitempty"`
	SequenceIndex int    `json:"sequence_index"`
}

// CharCount returns the segment's content length in bytes.
func (s Segment) CharCount() int {
	return len(s.Content)
}

// WordCount returns the number of whitespace-delimited tokens in the content.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Content))
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// Split segments text into ordered, bounded segments.
//
// Paragraphs are accumulated until appending another would exceed maxSize;
// the buffer is flushed only once it has reached minSize, so the lower bound
// wins over the upper one (a segment may exceed maxSize rather than fall
// below minSize). Paragraphs longer than maxSize are split at sentence
// boundaries first. Empty or whitespace-only input yields an empty slice.
func Split(text string, minSize, maxSize int) ([]Segment, error) {
	if minSize <= 0 || maxSize <= 0 {
		return nil, fmt.Errorf("segment size bounds must be positive: min=%d max=%d", minSize, maxSize)
	}
	if minSize > maxSize {
		return nil, fmt.Errorf("min size %d exceeds max size %d", minSize, maxSize)
	}

	normalized := Normalize(text)
	if normalized == "" {
		return []Segment{}, nil
	}

	units := buildUnits(normalized, maxSize)
	packed := pack(units, minSize, maxSize)

	segments := make([]Segment, 0, len(packed))
	cursor := 0

	for i, u := range packed {
		start := locate(normalized, u.text, cursor)
		end := start + len(u.text)

		segments = append(segments, Segment{
			Content:       u.text,
			StartOffset:   start,
			EndOffset:     end,
			Heading:       u.heading,
			SequenceIndex: i,
		})

		cursor = end
	}

	return segments, nil
}

// Normalize converts line endings to \n and trims surrounding whitespace.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

// unit is a packable piece of text: a paragraph, a sentence run from an
// oversized paragraph, or a heading-led paragraph.
type unit struct {
	text    string
	heading string
}

// buildUnits splits normalized text into paragraphs, attaches detected
// headings, and breaks paragraphs longer than maxSize at sentence boundaries.
func buildUnits(text string, maxSize int) []unit {
	paragraphs := blankLine.Split(text, -1)

	units := make([]unit, 0, len(paragraphs))
	pendingHeading := ""

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		heading := pendingHeading
		pendingHeading = ""

		first, _, multiline := strings.Cut(p, "\n")
		if h, ok := headingText(first); ok {
			if !multiline {
				// standalone heading paragraph: keep its text as a unit so
				// no source words are dropped, and carry the heading forward
				pendingHeading = h
				units = append(units, unit{text: p, heading: h})
				continue
			}
			heading = h
		}

		if len(p) > maxSize {
			for j, s := range splitSentences(p) {
				su := unit{text: s}
				if j == 0 {
					su.heading = heading
				}
				units = append(units, su)
			}
			continue
		}

		units = append(units, unit{text: p, heading: heading})
	}

	return units
}

// pack greedily accumulates units into segments bounded by minSize and maxSize.
func pack(units []unit, minSize, maxSize int) []unit {
	var out []unit
	var current unit

	for _, u := range units {
		if current.text == "" {
			current = u
			continue
		}

		switch {
		case len(current.text)+1+len(u.text) <= maxSize:
			current.text += " " + u.text
		case len(current.text) >= minSize:
			out = append(out, current)
			current = u
		default:
			// below minSize: force growth past maxSize rather than
			// emit an undersized fragment
			current.text += " " + u.text
		}

		if current.heading == "" {
			current.heading = u.heading
		}
	}

	if current.text != "" {
		out = append(out, current)
	}

	return out
}

// splitSentences breaks a paragraph at terminal punctuation followed by a
// space, keeping the punctuation with the preceding sentence. A paragraph
// with no sentence boundary is returned whole.
func splitSentences(p string) []string {
	var out []string
	start := 0

	for i := 0; i < len(p)-1; i++ {
		switch p[i] {
		case '.', '!', '?':
			if p[i+1] != ' ' && p[i+1] != '\n' {
				continue
			}
			sentence := strings.TrimSpace(p[start : i+1])
			if sentence != "" {
				out = append(out, sentence)
			}
			start = i + 1
		}
	}

	if trailing := strings.TrimSpace(p[start:]); trailing != "" {
		out = append(out, trailing)
	}

	if len(out) == 0 {
		return []string{p}
	}

	return out
}

// locate finds content's position in the source text via a forward-only
// prefix scan from the previous segment's end. Falls back to the cursor
// position when the prefix cannot be found, so offsets never move backward.
func locate(source, content string, cursor int) int {
	probe := content
	if len(probe) > prefixProbe {
		probe = probe[:prefixProbe]
	}

	if idx := strings.Index(source[cursor:], probe); idx >= 0 {
		return cursor + idx
	}

	return cursor
}

var titleWord = regexp.MustCompile(`^[A-Z][a-zA-Z0-9'-]*$`)

// headingText reports whether line looks like a section heading and returns
// the cleaned heading text. Markdown-style # markers always qualify; bare
// lines qualify when short, unterminated, and all-caps or Title Case.
func headingText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#")), true
	}

	if len(line) > 80 || strings.ContainsAny(string(line[len(line)-1]), ".!?,;:") {
		return "", false
	}

	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 8 {
		return "", false
	}

	upper := strings.ToUpper(line)
	if line == upper && strings.ContainsFunc(line, isLetter) {
		return line, true
	}

	if line[0] < 'A' || line[0] > 'Z' {
		return "", false
	}

	for _, w := range words {
		if len(w) >= 4 && !titleWord.MatchString(w) {
			return "", false
		}
	}

	return line, true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
