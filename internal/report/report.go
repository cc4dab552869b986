// Package report renders batch results for humans and downstream tooling:
// an enriched JSON export with precomputed summaries, and markdown reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/retailbench/retailbench/internal/models"
)

// export is the JSON document layout: the batch result plus derived
// summaries, so consumers don't recompute them.
type export struct {
	models.BatchResult
	Summary summaryBlock `json:"summary"`
}

type summaryBlock struct {
	Performance  models.PerformanceSummary `json:"performance"`
	SuccessRates successRates              `json:"success_rates"`
	Violations   models.ViolationSummary   `json:"policy_violations"`
	ToolUsage    models.ToolUsageSummary   `json:"tool_usage"`
}

type successRates struct {
	ByModel    map[string]float64 `json:"by_model"`
	ByScenario map[string]float64 `json:"by_scenario"`
}

// ExportJSON serializes the batch result with its summary block.
func ExportJSON(b *models.BatchResult) ([]byte, error) {
	doc := export{
		BatchResult: *b,
		Summary: summaryBlock{
			Performance: b.Performance(),
			SuccessRates: successRates{
				ByModel:    b.SuccessRateByModel(),
				ByScenario: b.SuccessRateByScenario(),
			},
			Violations: b.ViolationsSummary(),
			ToolUsage:  b.ToolUsage(),
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// SaveJSON writes the enriched export to a file.
func SaveJSON(b *models.BatchResult, path string) error {
	raw, err := ExportJSON(b)
	if err != nil {
		return fmt.Errorf("encoding batch result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Summary renders the headline markdown report.
func Summary(b *models.BatchResult) string {
	performance := b.Performance()
	violations := b.ViolationsSummary()

	var sb strings.Builder
	sb.WriteString("# LLM Agent Evaluation Report\n")
	fmt.Fprintf(&sb, "**Evaluation ID:** %s\n", b.EvaluationID)
	fmt.Fprintf(&sb, "**Duration:** %.2f seconds\n", b.DurationSec)
	fmt.Fprintf(&sb, "**Total Conversations:** %d\n", b.TotalConversations)

	sb.WriteString("\n## Overall Performance\n")
	fmt.Fprintf(&sb, "- **Success Rate:** %.2f%%\n", performance.OverallSuccessRate*100)
	fmt.Fprintf(&sb, "- **Average Conversation Duration:** %.2fs\n", performance.AvgDurationSec)
	fmt.Fprintf(&sb, "- **Average Conversation Turns:** %.1f\n", performance.AvgTurns)

	sb.WriteString("\n## Success Rates by Model\n")
	rates := b.SuccessRateByModel()
	for _, model := range b.Models {
		fmt.Fprintf(&sb, "- **%s:** %.2f%%\n", model, rates[model]*100)
	}

	sb.WriteString("\n## Policy Compliance\n")
	fmt.Fprintf(&sb, "- **Total Violations:** %d\n", violations.Total)
	fmt.Fprintf(&sb, "- **Violation Rate:** %.2f%%\n", violations.ViolationRate*100)
	if len(violations.ByKind) > 0 {
		sb.WriteString("- **Violations by Type:**\n")
		kinds := make([]string, 0, len(violations.ByKind))
		for kind := range violations.ByKind {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			ks := violations.ByKind[models.PolicyKind(kind)]
			fmt.Fprintf(&sb, "  - %s: %d (avg severity: %.2f)\n", kind, ks.Count, ks.AvgSeverity)
		}
	}

	sb.WriteString("\n## Models Evaluated\n")
	for _, model := range b.Models {
		results := b.ResultsByModel(model)
		successful := 0
		for _, r := range results {
			if r.Success {
				successful++
			}
		}
		fmt.Fprintf(&sb, "- **%s:** %d/%d successful (%.2f%%)\n",
			model, successful, len(results), rates[model]*100)
	}

	sb.WriteString("\n## Scenarios Evaluated\n")
	scenarioRates := b.SuccessRateByScenario()
	for _, id := range b.Scenarios {
		fmt.Fprintf(&sb, "- **%s:** %.2f%% success rate\n", id, scenarioRates[id]*100)
	}

	return sb.String()
}

// Detailed renders the summary plus a per-trial breakdown grouped by model
// and scenario.
func Detailed(b *models.BatchResult) string {
	var sb strings.Builder
	sb.WriteString(Summary(b))
	sb.WriteString("\n## Detailed Results\n")

	for _, model := range b.Models {
		fmt.Fprintf(&sb, "\n### %s\n", model)
		modelResults := b.ResultsByModel(model)

		for _, scenarioID := range b.Scenarios {
			var trials []models.TrialResult
			for _, r := range modelResults {
				if r.ScenarioID == scenarioID {
					trials = append(trials, r)
				}
			}
			if len(trials) == 0 {
				continue
			}

			fmt.Fprintf(&sb, "\n#### %s\n", scenarioID)
			for _, r := range trials {
				indicator := "FAIL"
				if r.Success {
					indicator = "PASS"
				}
				fmt.Fprintf(&sb, "%s **Trial %d**\n", indicator, r.Attempt)
				fmt.Fprintf(&sb, "  - Duration: %.2fs\n", r.DurationSec)
				fmt.Fprintf(&sb, "  - Turns: %d\n", r.Turns)
				fmt.Fprintf(&sb, "  - Tools Used: %d\n", len(r.ToolsUsed))
				fmt.Fprintf(&sb, "  - Policy Violations: %d\n", len(r.PolicyViolations))
				fmt.Fprintf(&sb, "  - Completion: %s\n", r.CompletionReason)
			}
		}
	}

	return sb.String()
}
