package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/retailbench/retailbench/internal/models"
)

// LangchainAgent drives a live model through langchaingo's llms.Model
// interface, so OpenAI-compatible and Anthropic backends share one code
// path.
type LangchainAgent struct {
	client      llms.Model
	modelName   string
	temperature float64
	maxTokens   int
}

// NewLangchainAgent wraps an initialized llms.Model client.
func NewLangchainAgent(client llms.Model, modelName string, cfg models.AgentConfig) *LangchainAgent {
	return &LangchainAgent{
		client:      client,
		modelName:   modelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (a *LangchainAgent) ModelName() string { return a.modelName }

// GenerateResponse converts the transcript to langchaingo messages, calls
// the backend with the sandbox tool schemas attached, and maps the first
// choice back into domain types.
func (a *LangchainAgent) GenerateResponse(ctx context.Context, transcript []models.Message, tools []llms.Tool) (*Response, error) {
	messages, err := toMessageContent(transcript)
	if err != nil {
		return nil, err
	}

	opts := []llms.CallOption{
		llms.WithModel(a.modelName),
		llms.WithTemperature(a.temperature),
		llms.WithMaxTokens(a.maxTokens),
	}
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}

	resp, err := a.client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model %s", a.modelName)
	}

	choice := resp.Choices[0]
	toolCalls, err := fromLLMToolCalls(choice.ToolCalls)
	if err != nil {
		return nil, err
	}

	return &Response{
		Message: models.Message{
			Role:      models.RoleAssistant,
			Content:   choice.Content,
			ToolCalls: toolCalls,
		},
		ToolCalls:    toolCalls,
		FinishReason: choice.StopReason,
		Usage:        usageFrom(choice.GenerationInfo),
	}, nil
}

func toMessageContent(transcript []models.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(transcript))
	for _, msg := range transcript {
		switch msg.Role {
		case models.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case models.RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case models.RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if msg.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args, err := json.Marshal(tc.Arguments)
				if err != nil {
					return nil, fmt.Errorf("marshal tool call arguments: %w", err)
				}
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Function,
						Arguments: string(args),
					},
				})
			}
			out = append(out, mc)
		case models.RoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: msg.ToolCallID,
					Name:       msg.Name,
					Content:    msg.Content,
				}},
			})
		default:
			return nil, fmt.Errorf("unsupported message role %q", msg.Role)
		}
	}
	return out, nil
}

func fromLLMToolCalls(calls []llms.ToolCall) ([]models.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]models.ToolCall, 0, len(calls))
	for _, tc := range calls {
		if tc.FunctionCall == nil {
			continue
		}
		args := map[string]any{}
		if tc.FunctionCall.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
				return nil, fmt.Errorf("decode arguments for tool %s: %w", tc.FunctionCall.Name, err)
			}
		}
		id := tc.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, models.ToolCall{
			ID:        id,
			Function:  tc.FunctionCall.Name,
			Arguments: args,
		})
	}
	return out, nil
}

func usageFrom(info map[string]any) map[string]int {
	if len(info) == 0 {
		return nil
	}
	usage := make(map[string]int)
	for key, name := range map[string]string{
		"PromptTokens":     "prompt_tokens",
		"CompletionTokens": "completion_tokens",
		"TotalTokens":      "total_tokens",
	} {
		switch v := info[key].(type) {
		case int:
			usage[name] = v
		case float64:
			usage[name] = int(v)
		}
	}
	if len(usage) == 0 {
		return nil
	}
	return usage
}
