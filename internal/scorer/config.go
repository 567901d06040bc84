package scorer

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds settings for the external analysis provider. An empty
// APIKey disables the provider entirely; analyses then run on the
// heuristic scorer alone.
type Config struct {
	APIKey            string `toml:"api_key"`
	Model             string `toml:"model"`
	MaxTokens         int64  `toml:"max_tokens"`
	MaxContentChars   int    `toml:"max_content_chars"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey            string
	Model             string
	MaxTokens         string
	MaxContentChars   string
	RequestsPerMinute string
}

// Enabled reports whether an external provider is configured.
func (c *Config) Enabled() bool {
	return c.APIKey != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.MaxContentChars != 0 {
		c.MaxContentChars = overlay.MaxContentChars
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "claude-sonnet-4-5-20250929"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	if c.MaxContentChars == 0 {
		c.MaxContentChars = 15000
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 30
	}
}

func (c *Config) loadEnv(env *Env) {
	setString := func(key string, dst *string) {
		if key == "" {
			return
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(env.APIKey, &c.APIKey)
	setString(env.Model, &c.Model)

	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.MaxContentChars != "" {
		if v := os.Getenv(env.MaxContentChars); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxContentChars = n
			}
		}
	}
	if env.RequestsPerMinute != "" {
		if v := os.Getenv(env.RequestsPerMinute); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RequestsPerMinute = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be positive")
	}
	return nil
}
