package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retailbench/retailbench/internal/models"
)

// DefaultBatchConfig returns a BatchConfig with default values.
func DefaultBatchConfig() models.BatchConfig {
	return models.BatchConfig{
		JobsDir:  "jobs",
		Trials:   5,
		MaxTurns: 10,
		Workers:  1,
		Criteria: models.CriteriaConfig{
			PassThreshold: 0.8,
		},
		Metrics: models.MetricsConfig{
			KValues: []int{1, 3, 5, 8, 10},
		},
		Agent: models.AgentConfig{
			Provider:    "scripted",
			Temperature: 0.1,
			MaxTokens:   4096,
		},
	}
}

// LoadBatchConfig loads and parses a batch.yaml file.
func LoadBatchConfig(path string) (models.BatchConfig, error) {
	cfg := DefaultBatchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading batch config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing batch config: %w", err)
	}

	if len(cfg.Models) == 0 {
		return cfg, fmt.Errorf("batch config: at least one model is required")
	}

	// Apply defaults for zeroed values
	if cfg.JobsDir == "" {
		cfg.JobsDir = "jobs"
	}
	if cfg.Trials == 0 {
		cfg.Trials = 5
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 10
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Criteria.PassThreshold == 0 {
		cfg.Criteria.PassThreshold = 0.8
	}
	if len(cfg.Metrics.KValues) == 0 {
		cfg.Metrics.KValues = []int{1, 3, 5, 8, 10}
	}
	if cfg.Agent.Provider == "" {
		cfg.Agent.Provider = "scripted"
	}

	if cfg.Criteria.PassThreshold < 0 || cfg.Criteria.PassThreshold > 1 {
		return cfg, fmt.Errorf("batch config: pass_threshold must be within [0,1], got %v", cfg.Criteria.PassThreshold)
	}
	for _, k := range cfg.Metrics.KValues {
		if k < 1 {
			return cfg, fmt.Errorf("batch config: k_values must be positive, got %d", k)
		}
	}

	return cfg, nil
}
