package models

import "time"

// BatchConfig is the parsed batch.yaml configuration.
type BatchConfig struct {
	Name         *string        `yaml:"name,omitempty" json:"name,omitempty"`
	JobsDir      string         `yaml:"jobs_dir" json:"jobs_dir"`
	Models       []string       `yaml:"models" json:"models"`
	Scenarios    []string       `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	ScenarioDirs []string       `yaml:"scenario_dirs,omitempty" json:"scenario_dirs,omitempty"`
	Trials       int            `yaml:"trials" json:"trials"`
	MaxTurns     int            `yaml:"max_turns" json:"max_turns"`
	Workers      int            `yaml:"workers" json:"workers"`
	LogLevel     string         `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Sandbox      SandboxConfig  `yaml:"sandbox,omitempty" json:"sandbox,omitempty"`
	Criteria     CriteriaConfig `yaml:"criteria,omitempty" json:"criteria,omitempty"`
	Metrics      MetricsConfig  `yaml:"metrics,omitempty" json:"metrics,omitempty"`
	Agent        AgentConfig    `yaml:"agent,omitempty" json:"agent,omitempty"`
}

// SandboxConfig controls store ownership. The default is one fresh store
// per trial; Shared opts into a single batch-wide store, which the store's
// internal locking keeps safe under concurrent trials.
type SandboxConfig struct {
	Shared bool `yaml:"shared" json:"shared"`
}

// CriteriaConfig tunes the criteria evaluator.
type CriteriaConfig struct {
	// PassThreshold is the met-count/total-criteria fraction a trial must
	// reach to succeed. Policy constant, not a law of the domain.
	PassThreshold float64 `yaml:"pass_threshold" json:"pass_threshold"`
	// FailUnmatched marks criteria with no matching detection rule as
	// unmet instead of met. Off by default for parity with historical
	// scoring; see criteria package docs.
	FailUnmatched bool `yaml:"fail_unmatched" json:"fail_unmatched"`
}

// MetricsConfig tunes the metrics engine.
type MetricsConfig struct {
	KValues       []int              `yaml:"k_values,omitempty" json:"k_values,omitempty"`
	PolicyWeights map[string]float64 `yaml:"policy_weights,omitempty" json:"policy_weights,omitempty"`
}

// AgentConfig configures the live agent backend. Ignored by the scripted
// agent used for deterministic runs.
type AgentConfig struct {
	Provider    string  `yaml:"provider,omitempty" json:"provider,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	APIKeyEnv   string  `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// ModelSummary aggregates one model's trials within a batch.
type ModelSummary struct {
	TotalTrials     int     `json:"total_trials"`
	Successes       int     `json:"successes"`
	FailedTrials    int     `json:"failed_trials"`
	SuccessRate     float64 `json:"success_rate"`
	TotalViolations int     `json:"total_violations"`
	AvgTurns        float64 `json:"avg_turns"`
}

// BatchResult is the complete outcome of one evaluation batch.
type BatchResult struct {
	EvaluationID       string                  `json:"evaluation_id"`
	Cancelled          bool                    `json:"cancelled"`
	StartedAt          time.Time               `json:"start_time"`
	EndedAt            time.Time               `json:"end_time"`
	DurationSec        float64                 `json:"duration_seconds"`
	Models             []string                `json:"models_evaluated"`
	Scenarios          []string                `json:"scenarios_evaluated"`
	TotalConversations int                     `json:"total_conversations"`
	Results            []TrialResult           `json:"results"`
	Metrics            map[string]MetricResult `json:"metrics"`
	ByModel            map[string]ModelSummary `json:"by_model"`
	Config             BatchConfig             `json:"configuration"`
}

// ResultsByModel returns all trial results for one model.
func (b *BatchResult) ResultsByModel(model string) []TrialResult {
	var out []TrialResult
	for _, r := range b.Results {
		if r.ModelName == model {
			out = append(out, r)
		}
	}
	return out
}

// ResultsByScenario returns all trial results for one scenario.
func (b *BatchResult) ResultsByScenario(scenarioID string) []TrialResult {
	var out []TrialResult
	for _, r := range b.Results {
		if r.ScenarioID == scenarioID {
			out = append(out, r)
		}
	}
	return out
}

// SuccessRateByModel computes each evaluated model's success rate.
// Models with no results map to 0.
func (b *BatchResult) SuccessRateByModel() map[string]float64 {
	rates := make(map[string]float64, len(b.Models))
	for _, model := range b.Models {
		rates[model] = successRate(b.ResultsByModel(model))
	}
	return rates
}

// SuccessRateByScenario computes each evaluated scenario's success rate.
func (b *BatchResult) SuccessRateByScenario() map[string]float64 {
	rates := make(map[string]float64, len(b.Scenarios))
	for _, id := range b.Scenarios {
		rates[id] = successRate(b.ResultsByScenario(id))
	}
	return rates
}

func successRate(results []TrialResult) float64 {
	if len(results) == 0 {
		return 0
	}
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return float64(n) / float64(len(results))
}

// ViolationKindSummary aggregates one violation kind across a batch.
type ViolationKindSummary struct {
	Count       int     `json:"count"`
	AvgSeverity float64 `json:"avg_severity"`
}

// ViolationSummary aggregates policy violations across all results.
type ViolationSummary struct {
	Total         int                                 `json:"total_violations"`
	ByKind        map[PolicyKind]ViolationKindSummary `json:"violations_by_type"`
	ByModel       map[string]int                      `json:"violations_by_model"`
	ViolationRate float64                             `json:"violation_rate"`
}

// ViolationsSummary totals violations by kind and by model. ViolationRate
// is violations per conversation.
func (b *BatchResult) ViolationsSummary() ViolationSummary {
	sum := ViolationSummary{
		ByKind:  make(map[PolicyKind]ViolationKindSummary),
		ByModel: make(map[string]int),
	}
	severityTotals := make(map[PolicyKind]float64)
	for _, r := range b.Results {
		for _, v := range r.PolicyViolations {
			ks := sum.ByKind[v.Kind]
			ks.Count++
			sum.ByKind[v.Kind] = ks
			severityTotals[v.Kind] += v.Severity
			sum.ByModel[r.ModelName]++
			sum.Total++
		}
	}
	for kind, ks := range sum.ByKind {
		ks.AvgSeverity = severityTotals[kind] / float64(ks.Count)
		sum.ByKind[kind] = ks
	}
	if b.TotalConversations > 0 {
		sum.ViolationRate = float64(sum.Total) / float64(b.TotalConversations)
	}
	return sum
}

// ToolUsageSummary counts tool invocations overall and per model.
type ToolUsageSummary struct {
	Overall map[string]int            `json:"tool_usage_overall"`
	ByModel map[string]map[string]int `json:"tool_usage_by_model"`
}

// ToolUsage tallies tool calls across all results.
func (b *BatchResult) ToolUsage() ToolUsageSummary {
	sum := ToolUsageSummary{
		Overall: make(map[string]int),
		ByModel: make(map[string]map[string]int),
	}
	for _, r := range b.Results {
		for _, rec := range r.ToolsUsed {
			sum.Overall[rec.Tool]++
			if sum.ByModel[r.ModelName] == nil {
				sum.ByModel[r.ModelName] = make(map[string]int)
			}
			sum.ByModel[r.ModelName][rec.Tool]++
		}
	}
	return sum
}

// PerformanceSummary is the headline view of a batch.
type PerformanceSummary struct {
	TotalConversations int     `json:"total_conversations"`
	OverallSuccessRate float64 `json:"overall_success_rate"`
	AvgDurationSec     float64 `json:"average_conversation_duration"`
	AvgTurns           float64 `json:"average_conversation_turns"`
	BatchDurationSec   float64 `json:"total_evaluation_duration"`
	ModelsEvaluated    int     `json:"models_evaluated"`
	ScenariosEvaluated int     `json:"scenarios_evaluated"`
}

// Performance computes the headline summary.
func (b *BatchResult) Performance() PerformanceSummary {
	sum := PerformanceSummary{
		TotalConversations: b.TotalConversations,
		BatchDurationSec:   b.DurationSec,
		ModelsEvaluated:    len(b.Models),
		ScenariosEvaluated: len(b.Scenarios),
	}
	if len(b.Results) == 0 {
		return sum
	}
	var dur, turns float64
	for _, r := range b.Results {
		dur += r.DurationSec
		turns += float64(r.Turns)
	}
	sum.OverallSuccessRate = successRate(b.Results)
	sum.AvgDurationSec = dur / float64(len(b.Results))
	sum.AvgTurns = turns / float64(len(b.Results))
	return sum
}
