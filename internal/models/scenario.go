package models

// Complexity tiers a scenario can declare.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Scenario is a scripted evaluation case. Scenarios are immutable once
// loaded and live for the process lifetime in the catalog.
type Scenario struct {
	ID                   string         `toml:"id" json:"id"`
	Title                string         `toml:"title" json:"title"`
	Description          string         `toml:"description" json:"description"`
	UserGoal             string         `toml:"user_goal" json:"user_goal"`
	SuccessCriteria      []string       `toml:"success_criteria" json:"success_criteria"`
	ConversationStarters []string       `toml:"conversation_starters" json:"conversation_starters"`
	Complexity           Complexity     `toml:"complexity" json:"complexity"`
	ExpectedTools        []string       `toml:"expected_tools" json:"expected_tools"`
	PolicyFocus          []string       `toml:"policy_focus" json:"policy_focus"`
	CustomerProfile      map[string]any `toml:"customer_profile" json:"customer_profile,omitempty"`
}

// ScenarioSummary is the listing view of a scenario.
type ScenarioSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Complexity    Complexity `json:"complexity"`
	PolicyFocus   []string   `json:"policy_focus"`
	ExpectedTools []string   `json:"expected_tools"`
}

// Summary returns the listing view of s.
func (s Scenario) Summary() ScenarioSummary {
	return ScenarioSummary{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		Complexity:    s.Complexity,
		PolicyFocus:   s.PolicyFocus,
		ExpectedTools: s.ExpectedTools,
	}
}
