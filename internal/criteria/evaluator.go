// Package criteria decides whether a scenario's declared success criteria
// are satisfied by a transcript and tool-call history. Like the policy
// checker, detection is keyword-based behind a stable interface.
package criteria

import (
	"fmt"
	"strings"

	"github.com/retailbench/retailbench/internal/models"
)

// Outcome is the result of evaluating one transcript.
type Outcome struct {
	// CriteriaMet maps each declared criterion string to its verdict.
	CriteriaMet map[string]bool
	// Success is true when the met fraction reaches the pass threshold.
	Success bool
	// Reason reports the met fraction, e.g. "success_criteria_met (4/5)".
	Reason string
}

// Evaluator scores transcripts against scenario criteria.
//
// A criterion that matches no detection rule defaults to met. That
// fail-open default inflates success rates for loosely-worded criteria;
// FailUnmatched flips the default to unmet. New scenarios should word
// criteria so that a rule matches either way.
type Evaluator struct {
	// PassThreshold is the met-count/total-criteria fraction required
	// for trial success.
	PassThreshold float64
	// FailUnmatched marks rule-less criteria as unmet instead of met.
	FailUnmatched bool
}

// NewEvaluator builds an evaluator from config.
func NewEvaluator(cfg models.CriteriaConfig) *Evaluator {
	threshold := cfg.PassThreshold
	if threshold == 0 {
		threshold = 0.8
	}
	return &Evaluator{
		PassThreshold: threshold,
		FailUnmatched: cfg.FailUnmatched,
	}
}

// Evaluate checks every declared criterion and aggregates the verdicts
// into a pass/fail decision.
func (e *Evaluator) Evaluate(scenario models.Scenario, transcript []models.Message, toolsUsed []models.ToolCallRecord) Outcome {
	met := e.checkCriteria(scenario, transcript, toolsUsed)

	total := len(scenario.SuccessCriteria)
	count := 0
	for _, ok := range met {
		if ok {
			count++
		}
	}

	success := total == 0 || float64(count) >= float64(total)*e.PassThreshold
	reason := fmt.Sprintf("insufficient_criteria (%d/%d)", count, total)
	if success {
		reason = fmt.Sprintf("success_criteria_met (%d/%d)", count, total)
	}

	return Outcome{CriteriaMet: met, Success: success, Reason: reason}
}

func (e *Evaluator) checkCriteria(scenario models.Scenario, transcript []models.Message, toolsUsed []models.ToolCallRecord) map[string]bool {
	text := strings.ToLower(models.TranscriptText(transcript))

	toolNames := make(map[string]bool, len(toolsUsed))
	toolErrors := 0
	inventoryChecked := false
	for _, rec := range toolsUsed {
		toolNames[rec.Tool] = true
		if !rec.Result.Success {
			toolErrors++
		}
		if rec.Tool == "check_inventory" {
			inventoryChecked = true
		}
	}

	met := make(map[string]bool, len(scenario.SuccessCriteria))
	for _, criterion := range scenario.SuccessCriteria {
		lower := strings.ToLower(criterion)
		verdict := !e.FailUnmatched
		matched := false

		for _, expected := range scenario.ExpectedTools {
			if strings.Contains(lower, expected) {
				matched = true
				verdict = toolNames[expected]
				break
			}
		}

		switch {
		case matched:
		case strings.Contains(lower, "pricing"):
			verdict = strings.Contains(text, "price") || strings.Contains(text, "$")
		case strings.Contains(lower, "availability"):
			verdict = inventoryChecked
		case strings.Contains(lower, "policy violations"):
			verdict = toolErrors == 0
		case strings.Contains(lower, "information"):
			verdict = len(text) > 100
		}

		met[criterion] = verdict
	}
	return met
}
