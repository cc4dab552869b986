package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/retailbench/retailbench/internal/models"
)

// LoadDir loads scenario definitions from every *.toml file in a
// directory. Files are loaded in lexical order.
func LoadDir(dir string) ([]models.Scenario, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory: %w", err)
	}

	var scenarios []models.Scenario
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		s, err := LoadFile(filepath.Join(absPath, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading scenario %s: %w", entry.Name(), err)
		}
		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", absPath)
	}

	return scenarios, nil
}

// LoadFile loads and validates a single scenario.toml file.
func LoadFile(path string) (models.Scenario, error) {
	var s models.Scenario
	s.Complexity = models.ComplexitySimple

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading scenario file: %w", err)
	}

	if _, err := toml.Decode(string(data), &s); err != nil {
		return s, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := Validate(s); err != nil {
		return s, err
	}

	return s, nil
}

// Validate checks a scenario's structure.
func Validate(s models.Scenario) error {
	if s.ID == "" {
		return fmt.Errorf("scenario is missing an id")
	}
	if s.Title == "" {
		return fmt.Errorf("scenario %s: missing title", s.ID)
	}
	if s.UserGoal == "" {
		return fmt.Errorf("scenario %s: missing user_goal", s.ID)
	}
	if len(s.SuccessCriteria) == 0 {
		return fmt.Errorf("scenario %s: at least one success criterion is required", s.ID)
	}
	if len(s.ConversationStarters) == 0 {
		return fmt.Errorf("scenario %s: at least one conversation starter is required", s.ID)
	}
	switch s.Complexity {
	case models.ComplexitySimple, models.ComplexityMedium, models.ComplexityComplex:
	default:
		return fmt.Errorf("scenario %s: unknown complexity %q", s.ID, s.Complexity)
	}
	return nil
}
