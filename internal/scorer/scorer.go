// Package scorer calls an external AI provider to assess document text
// against an ISO 27001 checklist. Its raw payload output is always passed
// through scoring.Normalize by the caller; the heuristic scorer remains the
// guaranteed fallback when the provider is unavailable or errors.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/isoguard/isoguard/internal/taxonomy"
	"github.com/isoguard/isoguard/pkg/formatting"
)

// ErrDisabled indicates no external provider is configured.
var ErrDisabled = errors.New("external scorer is not configured")

// Scorer produces a raw scoring payload for combined segment text.
// Implementations are untrusted producers; callers normalize the payload
// before use.
type Scorer interface {
	Score(ctx context.Context, combinedText string, entry taxonomy.Entry) (map[string]any, error)
}

// Anthropic scores documents through the Anthropic messages API, rate
// limited to the configured requests per minute.
type Anthropic struct {
	client          anthropic.Client
	model           string
	maxTokens       int64
	maxContentChars int
	limiter         *rate.Limiter
	logger          *slog.Logger
}

// NewAnthropic builds the provider client. Returns ErrDisabled when no API
// key is configured so callers can fall back to heuristic-only analysis.
func NewAnthropic(cfg *Config, logger *slog.Logger) (*Anthropic, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	return &Anthropic{
		client:          anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:           cfg.Model,
		maxTokens:       cfg.MaxTokens,
		maxContentChars: cfg.MaxContentChars,
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		logger:          logger.With("scorer", "anthropic"),
	}, nil
}

// Score sends the document text and checklist to the model and decodes the
// JSON payload from its response.
func (a *Anthropic) Score(ctx context.Context, combinedText string, entry taxonomy.Entry) (map[string]any, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	prompt := a.buildPrompt(combinedText, entry)

	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	payload, err := formatting.Parse[map[string]any](text.String())
	if err != nil {
		return nil, fmt.Errorf("parse scoring payload: %w", err)
	}

	a.logger.Debug("external scoring completed",
		"taxonomy_id", entry.ID,
		"content_chars", len(combinedText),
	)

	return payload, nil
}

func (a *Anthropic) buildPrompt(combinedText string, entry taxonomy.Entry) string {
	content := combinedText
	if len(content) > a.maxContentChars {
		content = content[:a.maxContentChars]
	}

	var controls strings.Builder
	for _, c := range entry.Controls {
		controls.WriteString("- ")
		controls.WriteString(c)
		controls.WriteString("\n")
	}

	return fmt.Sprintf(`You are an ISO 27001 compliance auditor. Analyze the following document content against the checklist item: %q.

The specific controls to check are:
%s
Document Content:
%s

Respond with valid JSON only, in this format:
{
    "compliance_status": "compliant" | "partial" | "non_compliant" | "not_applicable",
    "compliance_score": 0.0 to 1.0,
    "summary": "Brief summary of the compliance assessment",
    "findings": ["Finding 1", "Finding 2"],
    "recommendations": ["Recommendation 1"],
    "gaps": ["Gap 1"],
    "comments": ["Comment 1"],
    "control_scores": {"control name": 0.0 to 1.0}
}

Be specific and reference the actual document content in your findings.`,
		entry.Title, controls.String(), content)
}
