package metrics

import (
	"fmt"

	"github.com/retailbench/retailbench/internal/models"
)

// defaultKValues mirrors the standard reporting set.
var defaultKValues = []int{1, 3, 5, 8, 10}

// PassK measures per-task reliability: the estimated probability of at
// least one success within k attempts at the same (model, scenario) task.
// Tasks with fewer than k recorded trials are excluded from pass@k; the
// primary value is pass@ the largest configured k.
type PassK struct {
	KValues []int
}

// NewPassK builds the metric, falling back to the default k set.
func NewPassK(kValues []int) PassK {
	if len(kValues) == 0 {
		kValues = defaultKValues
	}
	return PassK{KValues: kValues}
}

func (PassK) Name() string { return "pass_k" }

func (m PassK) Compute(results []models.TrialResult) models.MetricResult {
	if len(results) == 0 {
		return models.MetricResult{Name: "pass_k", Value: 0}
	}

	// Group trial outcomes by task, preserving result order.
	taskOrder := []string{}
	taskTrials := make(map[string][]bool)
	for _, r := range results {
		if _, seen := taskTrials[r.TaskID]; !seen {
			taskOrder = append(taskOrder, r.TaskID)
		}
		taskTrials[r.TaskID] = append(taskTrials[r.TaskID], r.Success)
	}

	passK := make(map[string]float64, len(m.KValues))
	maxK := m.KValues[0]
	for _, k := range m.KValues {
		if k > maxK {
			maxK = k
		}

		var taskRates []float64
		for _, taskID := range taskOrder {
			trials := taskTrials[taskID]
			if len(trials) < k {
				continue
			}
			taskRates = append(taskRates, passAtK(trials[:k], k))
		}

		key := fmt.Sprintf("pass@%d", k)
		if len(taskRates) == 0 {
			passK[key] = 0
			continue
		}
		sum := 0.0
		for _, r := range taskRates {
			sum += r
		}
		passK[key] = sum / float64(len(taskRates))
	}

	return models.MetricResult{
		Name:  "pass_k",
		Value: passK[fmt.Sprintf("pass@%d", maxK)],
		Details: map[string]any{
			"pass_k_values":   passK,
			"tasks_evaluated": len(taskTrials),
			"k_values":        m.KValues,
		},
	}
}

// passAtK estimates 1 - P(all k sampled trials fail) from the observed
// outcomes, using the unbiased combinatorial estimator.
func passAtK(trials []bool, k int) float64 {
	nSuccess := 0
	for _, ok := range trials {
		if ok {
			nSuccess++
		}
	}
	nTotal := len(trials)

	switch {
	case nSuccess == 0:
		return 0
	case nSuccess == nTotal:
		return 1
	}

	// P(all k fail) = C(nTotal-nSuccess, k) / C(nTotal, k).
	allFail := combRatio(nTotal-nSuccess, nTotal, k)
	if allFail > 1 {
		allFail = 1
	}
	return 1 - allFail
}

// combRatio computes C(fail, k) / C(total, k) without materializing the
// binomial coefficients.
func combRatio(fail, total, k int) float64 {
	if fail < k {
		return 0
	}
	ratio := 1.0
	for i := 0; i < k; i++ {
		ratio *= float64(fail-i) / float64(total-i)
	}
	return ratio
}
