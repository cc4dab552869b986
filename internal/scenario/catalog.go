// Package scenario holds the static registry of evaluation scenarios.
// Scenarios are immutable once loaded; the catalog lives for the process
// lifetime.
package scenario

import (
	"fmt"
	"math/rand/v2"

	"github.com/retailbench/retailbench/internal/models"
)

// Catalog is a registry of scenarios keyed by id, preserving load order.
type Catalog struct {
	scenarios map[string]models.Scenario
	order     []string
}

// NewCatalog builds a catalog from the given scenarios. Duplicate ids
// are rejected.
func NewCatalog(scenarios ...models.Scenario) (*Catalog, error) {
	c := &Catalog{scenarios: make(map[string]models.Scenario, len(scenarios))}
	for _, s := range scenarios {
		if err := c.Add(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers one scenario.
func (c *Catalog) Add(s models.Scenario) error {
	if s.ID == "" {
		return fmt.Errorf("scenario with empty id")
	}
	if _, exists := c.scenarios[s.ID]; exists {
		return fmt.Errorf("scenario %q already registered", s.ID)
	}
	c.scenarios[s.ID] = s
	c.order = append(c.order, s.ID)
	return nil
}

// Get returns the scenario with the given id.
func (c *Catalog) Get(id string) (models.Scenario, error) {
	s, ok := c.scenarios[id]
	if !ok {
		return models.Scenario{}, fmt.Errorf("%w: %s", models.ErrScenarioNotFound, id)
	}
	return s, nil
}

// IDs returns all scenario ids in load order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// All returns all scenarios in load order.
func (c *Catalog) All() []models.Scenario {
	out := make([]models.Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.scenarios[id])
	}
	return out
}

// ByComplexity returns scenarios with the given complexity tier.
func (c *Catalog) ByComplexity(tier models.Complexity) []models.Scenario {
	var out []models.Scenario
	for _, s := range c.All() {
		if s.Complexity == tier {
			out = append(out, s)
		}
	}
	return out
}

// ByPolicyFocus returns scenarios that exercise the given policy area.
func (c *Catalog) ByPolicyFocus(focus string) []models.Scenario {
	var out []models.Scenario
	for _, s := range c.All() {
		for _, f := range s.PolicyFocus {
			if f == focus {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Random returns a uniformly chosen scenario, or an error if the
// catalog is empty.
func (c *Catalog) Random() (models.Scenario, error) {
	if len(c.order) == 0 {
		return models.Scenario{}, fmt.Errorf("%w: catalog is empty", models.ErrScenarioNotFound)
	}
	return c.scenarios[c.order[rand.IntN(len(c.order))]], nil
}

// Summaries returns the listing view of every scenario.
func (c *Catalog) Summaries() []models.ScenarioSummary {
	out := make([]models.ScenarioSummary, 0, len(c.order))
	for _, s := range c.All() {
		out = append(out, s.Summary())
	}
	return out
}

// Len returns the number of registered scenarios.
func (c *Catalog) Len() int {
	return len(c.order)
}
