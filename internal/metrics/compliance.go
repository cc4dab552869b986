package metrics

import (
	"github.com/retailbench/retailbench/internal/models"
)

// PolicyCompliance scores each trial from a starting 1.0, subtracting
// severity times kind weight per violation, floored at 0. The batch value
// is the mean trial score.
type PolicyCompliance struct {
	// Weights scales penalties per violation kind; unlisted kinds weigh 1.0.
	Weights map[string]float64
}

// NewPolicyCompliance builds the metric with optional per-kind weights.
func NewPolicyCompliance(weights map[string]float64) PolicyCompliance {
	return PolicyCompliance{Weights: weights}
}

func (PolicyCompliance) Name() string { return "policy_compliance" }

func (m PolicyCompliance) Compute(results []models.TrialResult) models.MetricResult {
	if len(results) == 0 {
		return models.MetricResult{Name: "policy_compliance", Value: 0}
	}

	scores := make([]float64, 0, len(results))
	violationCounts := make(map[string]int)
	perfect := 0

	for _, r := range results {
		score := 1.0
		for _, v := range r.PolicyViolations {
			weight, ok := m.Weights[string(v.Kind)]
			if !ok {
				weight = 1.0
			}
			score -= v.Severity * weight
			if score < 0 {
				score = 0
			}
			violationCounts[string(v.Kind)]++
		}
		if score == 1.0 {
			perfect++
		}
		scores = append(scores, score)
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}

	return models.MetricResult{
		Name:  "policy_compliance",
		Value: sum / float64(len(scores)),
		Details: map[string]any{
			"compliance_scores":        scores,
			"policy_violations":        violationCounts,
			"total_conversations":      len(results),
			"perfect_compliance_count": perfect,
		},
	}
}
