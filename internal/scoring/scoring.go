// Package scoring computes compliance outcomes for document text. The
// heuristic scorer is deterministic and always available; Normalize coerces
// externally produced payloads into the same canonical shape so both paths
// are interchangeable.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/isoguard/isoguard/internal/taxonomy"
)

// Verdict is the compliance classification of an analysis.
type Verdict string

const (
	VerdictCompliant     Verdict = "compliant"
	VerdictPartial       Verdict = "partial"
	VerdictNonCompliant  Verdict = "non_compliant"
	VerdictNotApplicable Verdict = "not_applicable"
)

// Valid reports whether v is one of the recognized verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictCompliant, VerdictPartial, VerdictNonCompliant, VerdictNotApplicable:
		return true
	}
	return false
}

// Outcome is the canonical result shape produced by the heuristic scorer
// and by normalization of external payloads.
type Outcome struct {
	Verdict         Verdict            `json:"compliance_status"`
	Score           float64            `json:"compliance_score"`
	Summary         string             `json:"summary"`
	Findings        []string           `json:"findings"`
	Recommendations []string           `json:"recommendations"`
	Gaps            []string           `json:"gaps"`
	Comments        []string           `json:"comments"`
	ControlScores   map[string]float64 `json:"control_scores"`
}

// Verdict banding thresholds on the combined coverage ratio.
const (
	compliantThreshold = 0.70
	partialThreshold   = 0.40
)

// Score evaluates combined segment text against a taxonomy entry.
//
// Coverage is measured two ways: the fraction of entry keywords present in
// the text, and the fraction of checklist requirements whose discriminating
// terms appear. The combined ratio is their average when both signals exist.
// Empty keyword or requirement lists never fail; the missing signal falls
// back to the other, and no signal at all yields a not_applicable verdict.
func Score(combinedText string, entry taxonomy.Entry) Outcome {
	lower := strings.ToLower(combinedText)

	var matched, missing []string
	for _, kw := range entry.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	var keywordRatio float64
	if len(entry.Keywords) > 0 {
		keywordRatio = float64(len(matched)) / float64(len(entry.Keywords))
	}

	satisfied := 0
	var unmet []string
	for _, req := range entry.Requirements {
		if requirementSatisfied(lower, req) {
			satisfied++
		} else {
			unmet = append(unmet, req)
		}
	}

	requirementRatio := keywordRatio
	if len(entry.Requirements) > 0 {
		requirementRatio = float64(satisfied) / float64(len(entry.Requirements))
	}

	var ratio float64
	switch {
	case len(entry.Keywords) > 0 && len(entry.Requirements) > 0:
		ratio = (keywordRatio + requirementRatio) / 2
	case len(entry.Requirements) > 0:
		ratio = requirementRatio
	default:
		ratio = keywordRatio
	}

	verdict, score := band(ratio)

	outcome := Outcome{
		Verdict:         verdict,
		Score:           score,
		Findings:        buildFindings(matched, satisfied, len(entry.Requirements)),
		Recommendations: buildRecommendations(unmet, missing),
		Gaps:            buildGaps(unmet, missing),
		ControlScores:   controlScores(lower, entry.Controls),
	}

	outcome.Comments = []string{
		fmt.Sprintf("Evaluated %d characters of combined segment text.", len(combinedText)),
		fmt.Sprintf("Keyword coverage %.0f%%, requirement coverage %.0f%%.", keywordRatio*100, requirementRatio*100),
		verdictRemark(verdict),
	}

	outcome.Summary = fmt.Sprintf(
		"Assessment of %q: %d of %d expected topics and %d of %d checklist requirements covered. Overall compliance score: %.0f%%.",
		entry.Title, len(matched), len(entry.Keywords), satisfied, len(entry.Requirements), score*100,
	)

	return outcome
}

// band maps a coverage ratio onto a verdict and a 0-1 score.
// Lower bounds are inclusive; a zero ratio means no signal at all.
func band(ratio float64) (Verdict, float64) {
	switch {
	case ratio >= compliantThreshold:
		return VerdictCompliant, round2(0.70 + ratio*0.30)
	case ratio >= partialThreshold:
		return VerdictPartial, round2(0.40 + ratio*0.30)
	case ratio > 0:
		return VerdictNonCompliant, round2(ratio * 0.40)
	default:
		return VerdictNotApplicable, 0.0
	}
}

// requirementSatisfied checks whether any of the requirement's
// discriminating terms appears in the lower-cased text.
func requirementSatisfied(lower, requirement string) bool {
	for _, term := range discriminatingTerms(requirement) {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// discriminatingTerms extracts up to the 3 longest words of at least 5
// characters from a requirement statement.
func discriminatingTerms(requirement string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(requirement)) {
		w = strings.Trim(w, ".,;:()\"'")
		if len(w) >= 5 {
			terms = append(terms, w)
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	if len(terms) > 3 {
		terms = terms[:3]
	}

	return terms
}

// controlScores rates each control independently: the fraction of its first
// 4 significant words that appear in the text. This is deliberately
// decoupled from the overall verdict.
func controlScores(lower string, controls []string) map[string]float64 {
	scores := make(map[string]float64, len(controls))

	for _, control := range controls {
		words := significantWords(control, 4)
		if len(words) == 0 {
			scores[control] = 0
			continue
		}

		found := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				found++
			}
		}

		scores[control] = round2(float64(found) / float64(len(words)))
	}

	return scores
}

// significantWords returns up to limit lower-cased alphabetic words of at
// least 4 characters, skipping control codes and filler words.
func significantWords(s string, limit int) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) < 4 || !alphabetic(w) {
			continue
		}
		words = append(words, w)
		if len(words) == limit {
			break
		}
	}
	return words
}

func alphabetic(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func buildFindings(matched []string, satisfied, total int) []string {
	var findings []string

	if len(matched) > 0 {
		findings = append(findings, fmt.Sprintf(
			"Document addresses the following topics: %s.",
			strings.Join(truncateList(matched, 5), ", "),
		))
	}

	if total > 0 {
		findings = append(findings, fmt.Sprintf(
			"%d of %d checklist requirements show supporting language.",
			satisfied, total,
		))
	}

	return findings
}

func buildGaps(unmet, missing []string) []string {
	var gaps []string

	for _, req := range truncateList(unmet, 8) {
		gaps = append(gaps, fmt.Sprintf("Requirement not evidenced: %s.", req))
	}

	if len(missing) > 0 {
		gaps = append(gaps, fmt.Sprintf(
			"Missing coverage for: %s.",
			strings.Join(truncateList(missing, 5), ", "),
		))
	}

	return gaps
}

func buildRecommendations(unmet, missing []string) []string {
	var recs []string

	for _, req := range truncateList(unmet, 3) {
		recs = append(recs, fmt.Sprintf("Document how the organization meets: %s.", req))
	}

	if len(recs) < 3 && len(missing) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Consider adding documentation for: %s.",
			strings.Join(truncateList(missing, 3), ", "),
		))
	}

	return truncateList(recs, 3)
}

func verdictRemark(v Verdict) string {
	switch v {
	case VerdictCompliant:
		return "Coverage is strong across the assessed area."
	case VerdictPartial:
		return "Coverage is present but incomplete for the assessed area."
	case VerdictNonCompliant:
		return "Coverage is insufficient for the assessed area."
	default:
		return "The assessed area does not appear to be addressed by this document."
	}
}

func truncateList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
