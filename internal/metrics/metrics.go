// Package metrics computes batch-level scores over trial results. Each
// metric is independent and pure; ComputeAll runs the standard set.
package metrics

import (
	"github.com/retailbench/retailbench/internal/models"
)

// Metric turns a slice of trial results into one named score.
type Metric interface {
	Name() string
	Compute(results []models.TrialResult) models.MetricResult
}

// Standard returns the default metric set, tuned by config.
func Standard(cfg models.MetricsConfig) []Metric {
	return []Metric{
		SuccessRate{},
		NewPassK(cfg.KValues),
		NewPolicyCompliance(cfg.PolicyWeights),
		ResponseQuality{},
	}
}

// ComputeAll evaluates every metric over the same result set.
func ComputeAll(results []models.TrialResult, cfg models.MetricsConfig) map[string]models.MetricResult {
	out := make(map[string]models.MetricResult)
	for _, m := range Standard(cfg) {
		out[m.Name()] = m.Compute(results)
	}
	return out
}

// SuccessRate is the fraction of trials that met their success criteria.
type SuccessRate struct{}

func (SuccessRate) Name() string { return "success_rate" }

func (SuccessRate) Compute(results []models.TrialResult) models.MetricResult {
	if len(results) == 0 {
		return models.MetricResult{Name: "success_rate", Value: 0}
	}
	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	rate := float64(successful) / float64(len(results))
	return models.MetricResult{
		Name:  "success_rate",
		Value: rate,
		Details: map[string]any{
			"successful": successful,
			"total":      len(results),
			"percentage": rate * 100,
		},
	}
}
