package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  default_max_tokens: 4096
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.DefaultMaxTokens != 4096 {
		t.Errorf("expected explicit default_max_tokens to survive, got %d", cfg.LLM.DefaultMaxTokens)
	}
	if cfg.LLM.DefaultMaxToolIterations != 5 {
		t.Errorf("expected default_max_tool_iterations to default to 5, got %d", cfg.LLM.DefaultMaxToolIterations)
	}
	if cfg.Context.TrimThreshold != 0.85 {
		t.Errorf("expected trim_threshold default 0.85, got %v", cfg.Context.TrimThreshold)
	}
	if cfg.Orchestration.DebateConvergenceThreshold != 0.75 {
		t.Errorf("expected debate_convergence_threshold default 0.75, got %v", cfg.Orchestration.DebateConvergenceThreshold)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("expected logging defaults info/json, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
llm:
  default_max_tokens: 4096
  bogus_field: true
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadValidatesLogLevel(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: verbose
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestLoadValidatesRatioThresholds(t *testing.T) {
	path := writeConfig(t, `
context:
  trim_threshold: 1.5
`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "trim_threshold") {
		t.Fatalf("expected trim_threshold error, got %v", err)
	}
}

func TestLoadResolvesIncludes(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	if err := os.WriteFile(basePath, []byte("llm:\n  default_max_tokens: 2048\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	mainPath := filepath.Join(dir, "main.yaml")
	if err := os.WriteFile(mainPath, []byte("$include: base.yaml\nlogging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.DefaultMaxTokens != 2048 {
		t.Errorf("expected included default_max_tokens 2048, got %d", cfg.LLM.DefaultMaxTokens)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
