package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Analysis.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic', got %q", cfg.Analysis.Provider)
	}
	if cfg.Analysis.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected model 'claude-sonnet-4-20250514', got %q", cfg.Analysis.Model)
	}
	if cfg.Analysis.MaxTokens != 4096 {
		t.Errorf("expected max_tokens 4096, got %d", cfg.Analysis.MaxTokens)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
analysis:
  provider: openai
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Analysis.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", cfg.Analysis.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Analysis.BaseURL != "https://api.anthropic.com" {
		t.Errorf("expected default base_url, got %q", cfg.Analysis.BaseURL)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Errorf("expected default api_key_env, got %q", cfg.Analysis.APIKeyEnv)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Analysis.GeminiModel == "" {
		t.Error("expected gemini_model to be populated from file")
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}

func TestTimeout(t *testing.T) {
	if got := (Analysis{}).Timeout(); got != 180*time.Second {
		t.Errorf("expected 180s fallback, got %v", got)
	}
	if got := (Analysis{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
}
