package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retailbench/retailbench/internal/models"
)

func sampleBatch() *models.BatchResult {
	return &models.BatchResult{
		EvaluationID:       "eval_1700000000_test",
		DurationSec:        12.5,
		Models:             []string{"model-a", "model-b"},
		Scenarios:          []string{"retail_001"},
		TotalConversations: 4,
		Results: []models.TrialResult{
			{
				TaskID: "model-a/retail_001", ModelName: "model-a", ScenarioID: "retail_001",
				Attempt: 1, Success: true, CompletionReason: "success_criteria_met (3/3)",
				Turns: 4, DurationSec: 2.0,
				ToolsUsed: []models.ToolCallRecord{{Tool: "search_products"}},
			},
			{
				TaskID: "model-a/retail_001", ModelName: "model-a", ScenarioID: "retail_001",
				Attempt: 2, Success: true, CompletionReason: "success_criteria_met (3/3)",
				Turns: 4, DurationSec: 2.0,
			},
			{
				TaskID: "model-b/retail_001", ModelName: "model-b", ScenarioID: "retail_001",
				Attempt: 1, Success: false, CompletionReason: "insufficient_criteria (1/3)",
				Turns: 10, DurationSec: 5.0,
				PolicyViolations: []models.PolicyViolation{
					{Kind: models.PolicyPurchasePressure, Severity: 0.6},
				},
			},
			{
				TaskID: "model-b/retail_001", ModelName: "model-b", ScenarioID: "retail_001",
				Attempt: 2, Success: true, CompletionReason: "success_criteria_met (3/3)",
				Turns: 6, DurationSec: 3.0,
			},
		},
	}
}

func TestExportJSONIncludesSummary(t *testing.T) {
	raw, err := ExportJSON(sampleBatch())
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decoding export: %v", err)
	}

	summary, ok := doc["summary"].(map[string]any)
	if !ok {
		t.Fatal("export missing summary block")
	}
	for _, key := range []string{"performance", "success_rates", "policy_violations", "tool_usage"} {
		if _, ok := summary[key]; !ok {
			t.Errorf("summary missing %s", key)
		}
	}

	rates := summary["success_rates"].(map[string]any)["by_model"].(map[string]any)
	if rates["model-a"] != 1.0 {
		t.Errorf("model-a success rate: %v", rates["model-a"])
	}
	if rates["model-b"] != 0.5 {
		t.Errorf("model-b success rate: %v", rates["model-b"])
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := SaveJSON(sampleBatch(), path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}
	if !json.Valid(raw) {
		t.Error("saved report is not valid JSON")
	}
}

func TestSummaryReport(t *testing.T) {
	out := Summary(sampleBatch())

	for _, want := range []string{
		"# LLM Agent Evaluation Report",
		"**Evaluation ID:** eval_1700000000_test",
		"**Total Conversations:** 4",
		"- **Success Rate:** 75.00%",
		"- **model-a:** 100.00%",
		"- **model-b:** 50.00%",
		"- **Total Violations:** 1",
		"purchase_pressure: 1 (avg severity: 0.60)",
		"- **retail_001:** 75.00% success rate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestDetailedReport(t *testing.T) {
	out := Detailed(sampleBatch())

	for _, want := range []string{
		"## Detailed Results",
		"### model-a",
		"#### retail_001",
		"PASS **Trial 1**",
		"FAIL **Trial 1**",
		"  - Completion: insufficient_criteria (1/3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detailed report missing %q", want)
		}
	}
}
