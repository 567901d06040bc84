package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Caps applied by Normalize.
const (
	maxListEntries = 10
	maxSummaryLen  = 2000
)

const defaultScore = 0.5

// Normalize coerces an externally produced scoring payload into the
// canonical Outcome shape. It is total: malformed fields are replaced with
// safe defaults rather than surfaced as errors, since the payload comes
// from an untrusted producer.
func Normalize(raw map[string]any) Outcome {
	out := Outcome{
		Verdict: VerdictNonCompliant,
		Score:   defaultScore,
	}

	if raw == nil {
		return out
	}

	if v, ok := raw["compliance_status"].(string); ok && Verdict(v).Valid() {
		out.Verdict = Verdict(v)
	}

	out.Score = round2(clamp01(coerceFloat(raw["compliance_score"], defaultScore)))
	out.Summary = truncateString(coerceString(raw["summary"]), maxSummaryLen)
	out.Findings = coerceList(raw["findings"])
	out.Recommendations = coerceList(raw["recommendations"])
	out.Gaps = coerceList(raw["gaps"])
	out.Comments = coerceList(raw["comments"])
	out.ControlScores = coerceScoreMap(raw["control_scores"])

	return out
}

// coerceScoreMap converts a raw control score mapping, substituting the
// default for individual malformed entries so one bad score never discards
// the whole map.
func coerceScoreMap(v any) map[string]float64 {
	raw, ok := v.(map[string]any)
	if !ok {
		if typed, ok := v.(map[string]float64); ok {
			out := make(map[string]float64, len(typed))
			for k, f := range typed {
				out[k] = round2(clamp01(f))
			}
			return out
		}
		return nil
	}

	out := make(map[string]float64, len(raw))
	for k, entry := range raw {
		out[k] = round2(clamp01(coerceFloat(entry, defaultScore)))
	}

	return out
}

func coerceFloat(v any, fallback float64) float64 {
	f := fallback

	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		if parsed, err := n.Float64(); err == nil {
			f = parsed
		}
	case string:
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			f = parsed
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}

	return f
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func coerceList(v any) []string {
	switch list := v.(type) {
	case nil:
		return nil
	case []string:
		return truncateList(list, maxListEntries)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, coerceString(item))
			if len(out) == maxListEntries {
				break
			}
		}
		return out
	default:
		return nil
	}
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func truncateString(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
