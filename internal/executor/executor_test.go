package executor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/retailbench/retailbench/internal/config"
	"github.com/retailbench/retailbench/internal/models"
	"github.com/retailbench/retailbench/internal/sandbox"
)

// countingExecutor returns canned successes and records how often it ran.
type countingExecutor struct {
	mu    sync.Mutex
	count int
}

func (c *countingExecutor) Execute(ctx context.Context, trial models.Trial) (*models.TrialResult, error) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return &models.TrialResult{
		TaskID:           trial.TaskID(),
		ModelName:        trial.Model,
		ScenarioID:       trial.Scenario.ID,
		Attempt:          trial.Attempt,
		Success:          true,
		CompletionReason: "success_criteria_met (3/3)",
		Turns:            2,
		CriteriaMet:      map[string]bool{},
		QualityRatings:   zeroQuality(),
	}, nil
}

func batchConfig(t *testing.T) models.BatchConfig {
	t.Helper()
	cfg := config.DefaultBatchConfig()
	cfg.Models = []string{"model-a", "model-b"}
	cfg.Scenarios = []string{"retail_001"}
	cfg.Trials = 3
	cfg.Workers = 2
	cfg.JobsDir = t.TempDir()
	name := "testbatch"
	cfg.Name = &name
	return cfg
}

func TestOrchestratorRunsFullMatrix(t *testing.T) {
	cfg := batchConfig(t)
	counter := &countingExecutor{}
	o, err := NewBatchOrchestrator(cfg, func(models.BatchConfig, *sandbox.Store) TrialExecutor {
		return counter
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 models x 1 scenario x 3 trials.
	if counter.count != 6 {
		t.Errorf("expected 6 executions, got %d", counter.count)
	}
	if result.TotalConversations != 6 {
		t.Errorf("total conversations: %d", result.TotalConversations)
	}
	if result.Cancelled {
		t.Error("batch should not be marked cancelled")
	}

	for _, model := range cfg.Models {
		summary := result.ByModel[model]
		if summary.TotalTrials != 3 || summary.Successes != 3 {
			t.Errorf("%s summary: %+v", model, summary)
		}
		if summary.SuccessRate != 1.0 {
			t.Errorf("%s success rate: %v", model, summary.SuccessRate)
		}
	}

	if result.Metrics["success_rate"].Value != 1.0 {
		t.Errorf("success_rate metric: %v", result.Metrics["success_rate"].Value)
	}
	if _, ok := result.Metrics["pass_k"]; !ok {
		t.Error("missing pass_k metric")
	}
}

func TestOrchestratorWritesArtifacts(t *testing.T) {
	cfg := batchConfig(t)
	o, err := NewBatchOrchestrator(cfg, func(models.BatchConfig, *sandbox.Store) TrialExecutor {
		return &countingExecutor{}
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	batchDir := filepath.Join(cfg.JobsDir, "testbatch")
	for _, f := range []string{"config.json", "result.json"} {
		if _, err := os.Stat(filepath.Join(batchDir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	trialResult := filepath.Join(batchDir, "model-a", "retail_001__1", "result.json")
	raw, err := os.ReadFile(trialResult)
	if err != nil {
		t.Fatalf("reading trial result: %v", err)
	}
	var parsed models.TrialResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("decoding trial result: %v", err)
	}
	if parsed.TaskID != "model-a/retail_001" || !parsed.Success {
		t.Errorf("unexpected trial result: %+v", parsed)
	}

	var batch models.BatchResult
	raw, err = os.ReadFile(filepath.Join(batchDir, "result.json"))
	if err != nil {
		t.Fatalf("reading batch result: %v", err)
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		t.Fatalf("decoding batch result: %v", err)
	}
	if batch.TotalConversations != 6 {
		t.Errorf("persisted batch result: %+v", batch.TotalConversations)
	}
}

func TestOrchestratorRefusesToOverwrite(t *testing.T) {
	cfg := batchConfig(t)
	if err := os.MkdirAll(filepath.Join(cfg.JobsDir, "testbatch"), 0755); err != nil {
		t.Fatal(err)
	}

	o, err := NewBatchOrchestrator(cfg, func(models.BatchConfig, *sandbox.Store) TrialExecutor {
		return &countingExecutor{}
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}
	if _, err := o.Run(context.Background()); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestOrchestratorRejectsUnknownScenario(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Scenarios = []string{"retail_404"}

	_, err := NewBatchOrchestrator(cfg, DefaultTrialExecutorFunc)
	if err == nil {
		t.Fatal("expected unknown scenario error")
	}
}

func TestOrchestratorCancelledContext(t *testing.T) {
	cfg := batchConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counter := &countingExecutor{}
	o, err := NewBatchOrchestrator(cfg, func(models.BatchConfig, *sandbox.Store) TrialExecutor {
		return counter
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}

	result, err := o.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Cancelled {
		t.Error("batch should be marked cancelled")
	}
	if result.TotalConversations != 0 {
		t.Errorf("no trials should have run, got %d", result.TotalConversations)
	}
}

func TestOrchestratorDefaultsToAllScenarios(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Scenarios = nil
	cfg.Models = []string{"model-a"}
	cfg.Trials = 1

	counter := &countingExecutor{}
	o, err := NewBatchOrchestrator(cfg, func(models.BatchConfig, *sandbox.Store) TrialExecutor {
		return counter
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The builtin catalog ships seven scenarios.
	if result.TotalConversations != 7 {
		t.Errorf("expected 7 conversations, got %d", result.TotalConversations)
	}
	if len(result.Scenarios) != 7 {
		t.Errorf("expected 7 scenario ids, got %v", result.Scenarios)
	}
}

func TestOrchestratorSharedSandbox(t *testing.T) {
	cfg := batchConfig(t)
	cfg.Sandbox.Shared = true
	cfg.Models = []string{"model-a"}
	cfg.Trials = 2

	var mu sync.Mutex
	var stores []*sandbox.Store
	o, err := NewBatchOrchestrator(cfg, func(_ models.BatchConfig, shared *sandbox.Store) TrialExecutor {
		mu.Lock()
		stores = append(stores, shared)
		mu.Unlock()
		return &countingExecutor{}
	})
	if err != nil {
		t.Fatalf("NewBatchOrchestrator: %v", err)
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(stores) == 0 {
		t.Fatal("no executors created")
	}
	for _, s := range stores {
		if s == nil {
			t.Error("shared sandbox not passed to executor factory")
		} else if s != stores[0] {
			t.Error("workers received different stores")
		}
	}
}
