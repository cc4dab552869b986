package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/retailbench/retailbench/internal/agent"
	"github.com/retailbench/retailbench/internal/criteria"
	"github.com/retailbench/retailbench/internal/models"
	"github.com/retailbench/retailbench/internal/policy"
	"github.com/retailbench/retailbench/internal/sandbox"
)

// TrialExecutor executes a single trial and returns the result.
type TrialExecutor interface {
	Execute(ctx context.Context, trial models.Trial) (*models.TrialResult, error)
}

// NewTrialExecutorFunc creates a TrialExecutor from a batch config. The
// shared store is non-nil only when the batch opts into a shared sandbox.
type NewTrialExecutorFunc func(cfg models.BatchConfig, shared *sandbox.Store) TrialExecutor

// ConversationExecutor drives one scripted conversation: the agent talks,
// its tool calls run against the retail sandbox, each response is scored
// for policy violations, and the trial ends as soon as the scenario's
// success criteria are met or the turn limit runs out.
type ConversationExecutor struct {
	cfg       models.BatchConfig
	checker   policy.Checker
	evaluator *criteria.Evaluator
	shared    *sandbox.Store

	// Seams for tests.
	newAgent func(model string, cfg models.AgentConfig) (agent.Agent, error)
	pick     func(n int) int
	now      func() time.Time
}

// NewConversationExecutor builds the default executor.
func NewConversationExecutor(cfg models.BatchConfig, shared *sandbox.Store) *ConversationExecutor {
	return &ConversationExecutor{
		cfg:       cfg,
		checker:   policy.NewKeywordChecker(),
		evaluator: criteria.NewEvaluator(cfg.Criteria),
		shared:    shared,
		newAgent:  agent.New,
		pick:      rand.IntN,
		now:       time.Now,
	}
}

// Execute runs the conversation loop for one trial. Per-trial failures are
// recorded on the result; the returned error is reserved for conditions
// the orchestrator itself must handle.
func (e *ConversationExecutor) Execute(ctx context.Context, trial models.Trial) (*models.TrialResult, error) {
	startedAt := e.now()
	result := &models.TrialResult{
		TaskID:           trial.TaskID(),
		ModelName:        trial.Model,
		ScenarioID:       trial.Scenario.ID,
		Attempt:          trial.Attempt,
		StartedAt:        startedAt,
		CompletionReason: models.ReasonMaxTurnsReached,
		CriteriaMet:      map[string]bool{},
		QualityRatings:   zeroQuality(),
	}

	a, err := e.newAgent(trial.Model, e.cfg.Agent)
	if err != nil {
		result.CompletionReason = fmt.Sprintf("error: %s", err)
		result.Error = &models.TrialError{Kind: models.ErrAgent, Message: err.Error()}
		return result, nil
	}

	store := e.shared
	if store == nil {
		store = sandbox.NewStore()
	}
	registry := sandbox.RetailRegistry(store)

	scenario := trial.Scenario
	starter := "Hi, I need some help with a purchase."
	if len(scenario.ConversationStarters) > 0 {
		starter = scenario.ConversationStarters[e.pick(len(scenario.ConversationStarters))]
	}
	transcript := []models.Message{
		{Role: models.RoleSystem, Content: agent.SystemPrompt()},
		{Role: models.RoleUser, Content: starter},
	}

	var toolsUsed []models.ToolCallRecord
	var violations []models.PolicyViolation

	for turn := 0; turn < e.cfg.MaxTurns; turn++ {
		resp, err := a.GenerateResponse(ctx, transcript, registry.Definitions())
		if err != nil {
			slog.Error("agent turn failed", "trial", trial.ID, "turn", turn, "error", err)
			result.CompletionReason = fmt.Sprintf("error: %s", err)
			result.Error = &models.TrialError{Kind: models.ErrAgent, Message: err.Error()}
			break
		}

		transcript = append(transcript, resp.Message)

		for _, call := range resp.ToolCalls {
			toolResult := registry.Execute(ctx, call)
			toolsUsed = append(toolsUsed, models.ToolCallRecord{
				Tool:      call.Function,
				Arguments: call.Arguments,
				Result:    toolResult,
			})

			raw, err := json.Marshal(toolResult)
			if err != nil {
				raw = []byte(`{"success":false,"error":"unencodable tool result"}`)
			}
			transcript = append(transcript, models.Message{
				Role:       models.RoleTool,
				Content:    string(raw),
				ToolCallID: call.ID,
				Name:       call.Function,
			})
		}

		violations = append(violations, e.checker.Check(resp.Message.Content, policy.Context{
			ToolsUsed: toolsUsed,
			Scenario:  &scenario,
		})...)

		outcome := e.evaluator.Evaluate(scenario, transcript, toolsUsed)
		result.Success = outcome.Success
		result.CompletionReason = outcome.Reason
		result.CriteriaMet = outcome.CriteriaMet
		if outcome.Success {
			break
		}

		if turn < e.cfg.MaxTurns-1 {
			transcript = append(transcript, models.Message{
				Role:    models.RoleUser,
				Content: e.followUp(scenario.ID),
			})
		}
	}

	result.Turns = models.CountTurns(transcript)
	result.ToolsUsed = toolsUsed
	result.PolicyViolations = violations
	result.Transcript = transcript
	result.DurationSec = e.now().Sub(startedAt).Seconds()
	result.QualityRatings = assessQuality(transcript)
	return result, nil
}

// followUps are the simulated customer's canned continuations, keyed by
// scenario. Scenarios without a dedicated set fall back to generic probes.
var followUps = map[string][]string{
	"retail_001": {
		"Can you tell me more about the pricing?",
		"What about the warranty on these products?",
		"Are they in stock right now?",
	},
	"retail_002": {
		"When will it be back in stock?",
		"Do you have any similar alternatives?",
		"Can I place a backorder?",
	},
	"retail_003": {
		"Can you check if everything is available?",
		"What would be the total cost?",
		"How long would delivery take?",
	},
}

var genericFollowUps = []string{
	"That's helpful, anything else I should know?",
	"Can you provide more details?",
	"What would you recommend?",
}

func (e *ConversationExecutor) followUp(scenarioID string) string {
	options, ok := followUps[scenarioID]
	if !ok {
		options = genericFollowUps
	}
	return options[e.pick(len(options))]
}

// assessQuality applies length and turn-count heuristics to the agent's
// messages. Crude, but stable across runs, which matters more here than
// nuance.
func assessQuality(transcript []models.Message) map[string]float64 {
	var agentMessages []models.Message
	for _, m := range transcript {
		if m.Role == models.RoleAssistant {
			agentMessages = append(agentMessages, m)
		}
	}
	if len(agentMessages) == 0 {
		return zeroQuality()
	}

	totalLen := 0
	for _, m := range agentMessages {
		totalLen += len(m.Content)
	}
	avgLen := float64(totalLen) / float64(len(agentMessages))

	relevance := avgLen / 200
	if relevance > 1 {
		relevance = 1
	}
	completeness := float64(len(agentMessages)) * 0.2
	if completeness > 1 {
		completeness = 1
	}
	clarity := 0.5
	if avgLen > 50 {
		clarity = 0.8
	}
	helpfulness := 0.6
	if len(agentMessages) > 1 {
		helpfulness = 0.9
	}

	return map[string]float64{
		"relevance":    relevance,
		"completeness": completeness,
		"clarity":      clarity,
		"helpfulness":  helpfulness,
	}
}

func zeroQuality() map[string]float64 {
	return map[string]float64{
		"relevance":    0,
		"completeness": 0,
		"clarity":      0,
		"helpfulness":  0,
	}
}
