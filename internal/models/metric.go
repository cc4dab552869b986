package models

// MetricResult is the output of one metric computed over a batch of trial
// results. Details carries metric-specific breakdowns, e.g. per-k pass
// rates or per-dimension quality averages.
type MetricResult struct {
	Name    string         `json:"name"`
	Value   float64        `json:"value"`
	Details map[string]any `json:"details,omitempty"`
}
