package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("expected default provider 'anthropic', got %s", cfg.DefaultProvider)
	}
	if cfg.Style != "ieee" {
		t.Errorf("expected style 'ieee', got %s", cfg.Style)
	}
	if len(cfg.Providers) != 3 {
		t.Errorf("expected 3 providers, got %d", len(cfg.Providers))
	}
	if cfg.Scoring.HeadingThreshold != 0.5 {
		t.Errorf("expected heading threshold 0.5, got %f", cfg.Scoring.HeadingThreshold)
	}
}

func TestDefaultScoring(t *testing.T) {
	s := DefaultScoring()

	if s.NumberingWeight != 0.8 {
		t.Errorf("expected numbering weight 0.8, got %f", s.NumberingWeight)
	}
	if s.PositionBoostMax != 0.45 {
		t.Errorf("expected position boost cap 0.45, got %f", s.PositionBoostMax)
	}
	if s.PositionFirstBoost != 0.15 {
		t.Errorf("expected first-block boost 0.15, got %f", s.PositionFirstBoost)
	}
	if s.PositionBlankBoost != 0.05 {
		t.Errorf("expected blank-line boost 0.05, got %f", s.PositionBlankBoost)
	}
	if s.FrontMatterMaxBlocks != 20 {
		t.Errorf("expected front matter bound 20, got %d", s.FrontMatterMaxBlocks)
	}
}

func TestConfig_GetProvider(t *testing.T) {
	cfg := DefaultConfig()

	p, ok := cfg.GetProvider("openai")
	if !ok {
		t.Fatal("expected openai provider to exist")
	}
	if p.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %s", p.Model)
	}

	if _, ok := cfg.GetProvider("nonexistent"); ok {
		t.Error("expected missing provider lookup to fail")
	}
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("expected default config, got provider %s", cfg.DefaultProvider)
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(path)

	cfg := DefaultConfig()
	cfg.DefaultProvider = "openai"
	cfg.Scoring.HeadingThreshold = 0.6

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.DefaultProvider != "openai" {
		t.Errorf("expected provider 'openai', got %s", loaded.DefaultProvider)
	}
	if loaded.Scoring.HeadingThreshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %f", loaded.Scoring.HeadingThreshold)
	}
}

func TestLoader_PartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_provider: gemini\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := NewLoaderWithPath(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DefaultProvider != "gemini" {
		t.Errorf("expected provider 'gemini', got %s", cfg.DefaultProvider)
	}
	// Scoring weights must survive a partial file.
	if cfg.Scoring.NumberingWeight != 0.8 {
		t.Errorf("expected numbering weight 0.8, got %f", cfg.Scoring.NumberingWeight)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("MANUSTRUCT_TEST_KEY", "secret-value")
	defer os.Unsetenv("MANUSTRUCT_TEST_KEY")

	input := "api_key: ${MANUSTRUCT_TEST_KEY}"
	expanded := expandEnvVars(input)
	if expanded != "api_key: secret-value" {
		t.Errorf("expected expansion, got %s", expanded)
	}

	// Unset variables expand to empty.
	input = "api_key: ${MANUSTRUCT_UNSET_KEY}"
	if got := expandEnvVars(input); got != "api_key: " {
		t.Errorf("expected empty expansion, got %s", got)
	}
}

func TestLoader_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(path)

	if err := loader.Init(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}
	if err := loader.Init(); err == nil {
		t.Error("expected second init to fail")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"", false},
	}

	for _, tc := range tests {
		os.Setenv("MANUSTRUCT_TEST_BOOL", tc.value)
		if got := GetEnvBool("MANUSTRUCT_TEST_BOOL"); got != tc.expected {
			t.Errorf("GetEnvBool(%q) = %v, want %v", tc.value, got, tc.expected)
		}
	}
	os.Unsetenv("MANUSTRUCT_TEST_BOOL")
}
