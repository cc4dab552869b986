package models

import "time"

// Trial is one scheduled attempt: one scenario by one model, attempt N.
type Trial struct {
	ID        string
	Scenario  Scenario
	Model     string
	Attempt   int
	OutputDir string
}

// TaskID groups trials of the same (model, scenario) pair for pass@k.
func (t Trial) TaskID() string {
	return t.Model + "/" + t.Scenario.ID
}

// Completion reasons recorded on a TrialResult.
const (
	ReasonMaxTurnsReached = "max_turns_reached"
	// Success and insufficient-criteria reasons carry the met fraction,
	// e.g. "success_criteria_met (4/5)"; see criteria.Evaluate.
)

// TrialResult is the immutable outcome of one trial. Every requested trial
// produces exactly one, whether it succeeded, ran out of turns, or errored.
type TrialResult struct {
	TaskID           string             `json:"task_id"`
	ModelName        string             `json:"model_name"`
	ScenarioID       string             `json:"scenario_id"`
	Attempt          int                `json:"attempt"`
	Success          bool               `json:"success"`
	CompletionReason string             `json:"completion_reason"`
	Turns            int                `json:"conversation_turns"`
	ToolsUsed        []ToolCallRecord   `json:"tools_used"`
	PolicyViolations []PolicyViolation  `json:"policy_violations"`
	DurationSec      float64            `json:"duration_seconds"`
	StartedAt        time.Time          `json:"started_at"`
	Transcript       []Message          `json:"conversation_history"`
	CriteriaMet      map[string]bool    `json:"success_criteria_met"`
	QualityRatings   map[string]float64 `json:"quality_ratings"`
	Error            *TrialError        `json:"error,omitempty"`
}

// ToolNames returns the names of all tools invoked during the trial,
// in call order.
func (r TrialResult) ToolNames() []string {
	names := make([]string, 0, len(r.ToolsUsed))
	for _, rec := range r.ToolsUsed {
		names = append(names, rec.Tool)
	}
	return names
}
