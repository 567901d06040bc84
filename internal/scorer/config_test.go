package scorer

import "testing"

func TestConfigFinalizeDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Enabled() {
		t.Error("config without api key should be disabled")
	}
	if cfg.Model == "" {
		t.Error("model default not applied")
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("max tokens = %d, want 2000", cfg.MaxTokens)
	}
	if cfg.MaxContentChars != 15000 {
		t.Errorf("max content chars = %d, want 15000", cfg.MaxContentChars)
	}
	if cfg.RequestsPerMinute != 30 {
		t.Errorf("requests per minute = %d, want 30", cfg.RequestsPerMinute)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TEST_SCORER_API_KEY", "sk-test")
	t.Setenv("TEST_SCORER_MODEL", "claude-test")

	var cfg Config
	err := cfg.Finalize(&Env{
		APIKey: "TEST_SCORER_API_KEY",
		Model:  "TEST_SCORER_MODEL",
	})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if !cfg.Enabled() {
		t.Error("config with api key should be enabled")
	}
	if cfg.Model != "claude-test" {
		t.Errorf("model = %q", cfg.Model)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := Config{Model: "base", MaxTokens: 1000}
	cfg.Merge(&Config{Model: "overlay", RequestsPerMinute: 10})

	if cfg.Model != "overlay" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("max tokens = %d, want unchanged 1000", cfg.MaxTokens)
	}
	if cfg.RequestsPerMinute != 10 {
		t.Errorf("requests per minute = %d", cfg.RequestsPerMinute)
	}
}
