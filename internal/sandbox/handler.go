package sandbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/xeipuuv/gojsonschema"

	"github.com/retailbench/retailbench/internal/models"
)

// Handler executes one declared tool. Every handler carries its own
// parameter schema, so a registry can statically verify that each declared
// tool has an implementation and validate arguments before dispatch.
type Handler interface {
	// Name returns the tool name agents call.
	Name() string

	// Definition returns the tool declaration handed to agents.
	Definition() llms.Tool

	// Invoke executes the tool. Returned errors describe sandbox-level
	// failures; they are surfaced to the agent, not raised.
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Registry maps tool names to handlers.
type Registry struct {
	handlers map[string]Handler
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler. Duplicate names are rejected.
func (r *Registry) Register(h Handler) error {
	name := h.Name()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.handlers[name] = h
	r.order = append(r.order, name)
	return nil
}

// Definitions returns the declared tool schemas in registration order.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.handlers[name].Definition())
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Execute routes one tool call to its handler, validating arguments
// against the handler's declared schema first. Failures of any kind come
// back as an unsuccessful ToolResult; the conversation continues.
func (r *Registry) Execute(ctx context.Context, call models.ToolCall) models.ToolResult {
	h, ok := r.handlers[call.Function]
	if !ok {
		return models.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("%s: %s", models.ErrUnknownTool, call.Function),
		}
	}

	if err := validateArgs(h, call.Arguments); err != nil {
		return models.ToolResult{Success: false, Error: err.Error()}
	}

	payload, err := h.Invoke(ctx, call.Arguments)
	if err != nil {
		return models.ToolResult{Success: false, Error: err.Error()}
	}
	return models.ToolResult{Success: true, Payload: payload}
}

func validateArgs(h Handler, args map[string]any) error {
	def := h.Definition()
	if def.Function == nil || def.Function.Parameters == nil {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(def.Function.Parameters),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("validating arguments for %s: %w", h.Name(), err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid arguments for %s: %s", h.Name(), strings.Join(msgs, "; "))
	}
	return nil
}
