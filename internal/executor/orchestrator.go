// Package executor schedules and runs evaluation batches: the Cartesian
// product of models, scenarios and attempts, fanned out over a worker
// pool, with every trial's artifacts written under the batch directory.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/retailbench/retailbench/internal/config"
	"github.com/retailbench/retailbench/internal/metrics"
	"github.com/retailbench/retailbench/internal/models"
	"github.com/retailbench/retailbench/internal/sandbox"
	"github.com/retailbench/retailbench/internal/scenario"
)

// BatchOrchestrator coordinates the execution of all trials in a batch.
type BatchOrchestrator struct {
	cfg         models.BatchConfig
	catalog     *scenario.Catalog
	newExecutor NewTrialExecutorFunc
	now         func() time.Time
}

// NewBatchOrchestrator builds an orchestrator: the builtin scenario
// catalog extended with any configured scenario directories, with every
// requested scenario id validated up front.
func NewBatchOrchestrator(cfg models.BatchConfig, executorFactory NewTrialExecutorFunc) (*BatchOrchestrator, error) {
	catalog := scenario.Builtin()
	for _, dir := range cfg.ScenarioDirs {
		loaded, err := scenario.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("loading scenarios from %s: %w", dir, err)
		}
		for _, s := range loaded {
			if err := catalog.Add(s); err != nil {
				return nil, fmt.Errorf("loading scenarios from %s: %w", dir, err)
			}
		}
	}

	for _, id := range cfg.Scenarios {
		if _, err := catalog.Get(id); err != nil {
			return nil, err
		}
	}

	return &BatchOrchestrator{
		cfg:         cfg,
		catalog:     catalog,
		newExecutor: executorFactory,
		now:         time.Now,
	}, nil
}

// Run executes every trial the batch config defines and aggregates the
// results. Cancelling the context stops feeding new trials; trials already
// running finish and are included, the rest are counted as skipped.
func (o *BatchOrchestrator) Run(ctx context.Context) (*models.BatchResult, error) {
	startedAt := o.now()

	scenarioIDs := o.cfg.Scenarios
	if len(scenarioIDs) == 0 {
		scenarioIDs = o.catalog.IDs()
	}

	trials, err := o.buildTrials(scenarioIDs)
	if err != nil {
		return nil, err
	}

	batchName := startedAt.Format("2006-01-02__15-04-05")
	if o.cfg.Name != nil {
		batchName = *o.cfg.Name
	}
	batchDir := filepath.Join(o.cfg.JobsDir, batchName)

	if _, err := os.Stat(batchDir); err == nil {
		return nil, fmt.Errorf("batch directory already exists: %s (will not overwrite existing results)", batchDir)
	}
	if err := os.MkdirAll(batchDir, 0755); err != nil {
		return nil, fmt.Errorf("creating batch directory: %w", err)
	}

	for i := range trials {
		trials[i].OutputDir = filepath.Join(batchDir, trials[i].Model,
			fmt.Sprintf("%s__%d", trials[i].Scenario.ID, trials[i].Attempt))
	}
	for _, trial := range trials {
		if _, err := os.Stat(trial.OutputDir); err == nil {
			return nil, fmt.Errorf("trial output directory already exists: %s (will not overwrite existing results)", trial.OutputDir)
		}
	}

	cfgJSON, _ := json.MarshalIndent(o.cfg, "", "  ")
	os.WriteFile(filepath.Join(batchDir, "config.json"), cfgJSON, 0644)

	workers := o.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(trials) {
		workers = len(trials)
	}

	slog.Info("starting batch",
		"batch", batchName,
		"models", len(o.cfg.Models),
		"scenarios", len(scenarioIDs),
		"trials", len(trials),
		"workers", workers)

	results, skipped := o.runConcurrent(ctx, trials, workers)

	batchResult := o.aggregate(batchName, startedAt, scenarioIDs, results)
	batchResult.Cancelled = skipped > 0

	resultJSON, _ := json.MarshalIndent(batchResult, "", "  ")
	os.WriteFile(filepath.Join(batchDir, "result.json"), resultJSON, 0644)

	return batchResult, nil
}

// buildTrials expands the config into the models × scenarios × attempts
// product.
func (o *BatchOrchestrator) buildTrials(scenarioIDs []string) ([]models.Trial, error) {
	var trials []models.Trial
	for _, model := range o.cfg.Models {
		for _, id := range scenarioIDs {
			s, err := o.catalog.Get(id)
			if err != nil {
				return nil, err
			}
			for attempt := 1; attempt <= o.cfg.Trials; attempt++ {
				trials = append(trials, models.Trial{
					ID:       fmt.Sprintf("%s__%s__%d", model, id, attempt),
					Scenario: s,
					Model:    model,
					Attempt:  attempt,
				})
			}
		}
	}
	return trials, nil
}

// runConcurrent executes trials using a fan-out/fan-in pattern. Returns
// collected results and the count of trials never started.
func (o *BatchOrchestrator) runConcurrent(ctx context.Context, trials []models.Trial, workers int) ([]models.TrialResult, int) {
	var shared *sandbox.Store
	if o.cfg.Sandbox.Shared {
		shared = sandbox.NewStore()
	}

	trialChan := make(chan models.Trial) // unbuffered
	resultChan := make(chan models.TrialResult, len(trials))

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			executor := o.newExecutor(o.cfg, shared)

			for trial := range trialChan {
				os.MkdirAll(trial.OutputDir, 0755)

				result, err := executor.Execute(ctx, trial)
				if err != nil {
					result = &models.TrialResult{
						TaskID:           trial.TaskID(),
						ModelName:        trial.Model,
						ScenarioID:       trial.Scenario.ID,
						Attempt:          trial.Attempt,
						CompletionReason: fmt.Sprintf("error: %s", err),
						CriteriaMet:      map[string]bool{},
						QualityRatings:   zeroQuality(),
						Error: &models.TrialError{
							Kind:    models.ErrInternal,
							Message: err.Error(),
						},
					}
				}

				resultJSON, _ := json.MarshalIndent(result, "", "  ")
				os.WriteFile(filepath.Join(trial.OutputDir, "result.json"), resultJSON, 0644)
				if result.Error != nil {
					os.WriteFile(filepath.Join(trial.OutputDir, "error.txt"), []byte(result.Error.Message), 0644)
				}

				resultChan <- *result
			}
			return nil
		})
	}

	// Feeder: sends trials to workers, stops on cancellation. The
	// pre-check keeps an already-cancelled context from racing the send.
	go func() {
		defer close(trialChan)
		for _, trial := range trials {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case trialChan <- trial:
			}
		}
	}()

	go func() {
		g.Wait()
		close(resultChan)
	}()

	var results []models.TrialResult
	for result := range resultChan {
		results = append(results, result)
	}

	skipped := len(trials) - len(results)
	if skipped < 0 {
		skipped = 0
	}
	return results, skipped
}

func (o *BatchOrchestrator) aggregate(batchName string, startedAt time.Time, scenarioIDs []string, results []models.TrialResult) *models.BatchResult {
	endedAt := o.now()

	byModel := make(map[string]models.ModelSummary, len(o.cfg.Models))
	for _, model := range o.cfg.Models {
		var summary models.ModelSummary
		totalTurns := 0
		for _, r := range results {
			if r.ModelName != model {
				continue
			}
			summary.TotalTrials++
			totalTurns += r.Turns
			if r.Success {
				summary.Successes++
			}
			if r.Error != nil {
				summary.FailedTrials++
			}
			summary.TotalViolations += len(r.PolicyViolations)
		}
		if summary.TotalTrials > 0 {
			summary.SuccessRate = float64(summary.Successes) / float64(summary.TotalTrials)
			summary.AvgTurns = float64(totalTurns) / float64(summary.TotalTrials)
		}
		byModel[model] = summary
	}

	return &models.BatchResult{
		EvaluationID:       fmt.Sprintf("eval_%d_%s", startedAt.Unix(), batchName),
		StartedAt:          startedAt,
		EndedAt:            endedAt,
		DurationSec:        endedAt.Sub(startedAt).Seconds(),
		Models:             o.cfg.Models,
		Scenarios:          scenarioIDs,
		TotalConversations: len(results),
		Results:            results,
		Metrics:            metrics.ComputeAll(results, o.cfg.Metrics),
		ByModel:            byModel,
		Config:             o.cfg,
	}
}

// DefaultTrialExecutorFunc creates the standard conversation executor.
func DefaultTrialExecutorFunc(cfg models.BatchConfig, shared *sandbox.Store) TrialExecutor {
	return NewConversationExecutor(cfg, shared)
}

// RunFromConfig loads a batch config file and executes the batch.
func RunFromConfig(ctx context.Context, configPath string) (*models.BatchResult, error) {
	cfg, err := config.LoadBatchConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading batch config: %w", err)
	}

	orchestrator, err := NewBatchOrchestrator(cfg, DefaultTrialExecutorFunc)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	return orchestrator.Run(ctx)
}
