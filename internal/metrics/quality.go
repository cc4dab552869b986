package metrics

import (
	"github.com/retailbench/retailbench/internal/models"
)

// qualityDimensions are the rated aspects of agent responses. Trials
// missing a dimension score 0.5 for it, the neutral midpoint.
var qualityDimensions = []string{"relevance", "completeness", "clarity", "helpfulness"}

// ResponseQuality averages per-trial quality ratings across all four
// dimensions, reporting per-dimension batch averages in the details.
type ResponseQuality struct{}

func (ResponseQuality) Name() string { return "response_quality" }

func (ResponseQuality) Compute(results []models.TrialResult) models.MetricResult {
	if len(results) == 0 {
		return models.MetricResult{Name: "response_quality", Value: 0}
	}

	trialScores := make([]float64, 0, len(results))
	dimensionScores := make(map[string][]float64, len(qualityDimensions))

	for _, r := range results {
		sum := 0.0
		for _, dim := range qualityDimensions {
			score, ok := r.QualityRatings[dim]
			if !ok {
				score = 0.5
			}
			dimensionScores[dim] = append(dimensionScores[dim], score)
			sum += score
		}
		trialScores = append(trialScores, sum/float64(len(qualityDimensions)))
	}

	total := 0.0
	for _, s := range trialScores {
		total += s
	}

	dimensionAverages := make(map[string]float64, len(qualityDimensions))
	for dim, scores := range dimensionScores {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		dimensionAverages[dim] = sum / float64(len(scores))
	}

	return models.MetricResult{
		Name:  "response_quality",
		Value: total / float64(len(trialScores)),
		Details: map[string]any{
			"quality_scores":     trialScores,
			"dimension_averages": dimensionAverages,
			"total_responses":    len(results),
		},
	}
}
