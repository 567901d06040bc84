package config

import (
	"fmt"

	"github.com/isoguard/isoguard/internal/scorer"
)

const (
	EnvAnalysisMinSegmentSize   = "ISOGUARD_ANALYSIS_MIN_SEGMENT_SIZE"
	EnvAnalysisMaxSegmentSize   = "ISOGUARD_ANALYSIS_MAX_SEGMENT_SIZE"
	EnvAnalysisBatchConcurrency = "ISOGUARD_ANALYSIS_BATCH_CONCURRENCY"
)

var scorerEnv = &scorer.Env{
	APIKey:            "ISOGUARD_ANTHROPIC_API_KEY",
	Model:             "ISOGUARD_ANTHROPIC_MODEL",
	MaxTokens:         "ISOGUARD_ANTHROPIC_MAX_TOKENS",
	MaxContentChars:   "ISOGUARD_ANTHROPIC_MAX_CONTENT_CHARS",
	RequestsPerMinute: "ISOGUARD_ANTHROPIC_REQUESTS_PER_MINUTE",
}

// AnalysisConfig holds segmentation bounds, batch concurrency, and the
// optional external scorer settings.
type AnalysisConfig struct {
	MinSegmentSize   int           `toml:"min_segment_size"`
	MaxSegmentSize   int           `toml:"max_segment_size"`
	BatchConcurrency int           `toml:"batch_concurrency"`
	Scorer           scorer.Config `toml:"scorer"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	setInt(&c.MinSegmentSize, 100, EnvAnalysisMinSegmentSize)
	setInt(&c.MaxSegmentSize, 2000, EnvAnalysisMaxSegmentSize)
	setInt(&c.BatchConcurrency, 3, EnvAnalysisBatchConcurrency)

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Scorer.Finalize(scorerEnv); err != nil {
		return fmt.Errorf("scorer: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.MinSegmentSize != 0 {
		c.MinSegmentSize = overlay.MinSegmentSize
	}
	if overlay.MaxSegmentSize != 0 {
		c.MaxSegmentSize = overlay.MaxSegmentSize
	}
	if overlay.BatchConcurrency != 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
	c.Scorer.Merge(&overlay.Scorer)
}

func (c *AnalysisConfig) validate() error {
	if c.MinSegmentSize < 1 {
		return fmt.Errorf("min_segment_size must be positive")
	}
	if c.MaxSegmentSize < c.MinSegmentSize {
		return fmt.Errorf("max_segment_size %d below min_segment_size %d", c.MaxSegmentSize, c.MinSegmentSize)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive")
	}
	return nil
}
