package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadBatchConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
models:
  - scripted-baseline
`)

	cfg, err := LoadBatchConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Trials != 5 {
		t.Errorf("expected 5 trials, got %d", cfg.Trials)
	}
	if cfg.MaxTurns != 10 {
		t.Errorf("expected 10 max turns, got %d", cfg.MaxTurns)
	}
	if cfg.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Workers)
	}
	if cfg.Criteria.PassThreshold != 0.8 {
		t.Errorf("expected pass threshold 0.8, got %v", cfg.Criteria.PassThreshold)
	}
	if len(cfg.Metrics.KValues) != 5 {
		t.Errorf("expected default k values, got %v", cfg.Metrics.KValues)
	}
	if cfg.Agent.Provider != "scripted" {
		t.Errorf("expected scripted provider, got %q", cfg.Agent.Provider)
	}
}

func TestLoadBatchConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
models:
  - scripted-baseline
  - scripted-pushy
scenarios:
  - retail_001
trials: 3
max_turns: 6
workers: 4
criteria:
  pass_threshold: 0.75
  fail_unmatched: true
metrics:
  k_values: [1, 3]
  policy_weights:
    pricing_error: 2.0
sandbox:
  shared: true
`)

	cfg, err := LoadBatchConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if len(cfg.Models) != 2 {
		t.Errorf("expected 2 models, got %d", len(cfg.Models))
	}
	if cfg.Trials != 3 || cfg.MaxTurns != 6 || cfg.Workers != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Criteria.PassThreshold != 0.75 || !cfg.Criteria.FailUnmatched {
		t.Errorf("criteria overrides not applied: %+v", cfg.Criteria)
	}
	if !cfg.Sandbox.Shared {
		t.Error("expected shared sandbox")
	}
	if cfg.Metrics.PolicyWeights["pricing_error"] != 2.0 {
		t.Errorf("policy weights not applied: %v", cfg.Metrics.PolicyWeights)
	}
}

func TestLoadBatchConfigRejectsNoModels(t *testing.T) {
	path := writeConfig(t, `trials: 3`)

	if _, err := LoadBatchConfig(path); err == nil {
		t.Fatal("expected error for config without models")
	}
}

func TestLoadBatchConfigRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
models: [scripted-baseline]
criteria:
  pass_threshold: 1.5
`)

	if _, err := LoadBatchConfig(path); err == nil {
		t.Fatal("expected error for out-of-range pass threshold")
	}
}
