package agent

import (
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/retailbench/retailbench/internal/models"
)

// New constructs the agent backend for one evaluated model. The provider
// selects the implementation; the empty provider means scripted, so default
// configs run without credentials.
func New(modelName string, cfg models.AgentConfig) (Agent, error) {
	switch cfg.Provider {
	case "", "scripted":
		return NewScriptedAgent(modelName), nil
	case "openai":
		key, err := apiKey(cfg, "OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		opts := []openai.Option{openai.WithToken(key), openai.WithModel(modelName)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return NewLangchainAgent(client, modelName, cfg), nil
	case "anthropic":
		key, err := apiKey(cfg, "ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		opts := []anthropic.Option{anthropic.WithToken(key), anthropic.WithModel(modelName)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		client, err := anthropic.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return NewLangchainAgent(client, modelName, cfg), nil
	default:
		return nil, fmt.Errorf("%w: provider %q for model %s", models.ErrUnknownModel, cfg.Provider, modelName)
	}
}

func apiKey(cfg models.AgentConfig, fallbackEnv string) (string, error) {
	env := cfg.APIKeyEnv
	if env == "" {
		env = fallbackEnv
	}
	key := os.Getenv(env)
	if key == "" {
		return "", fmt.Errorf("provider %s requires %s to be set", cfg.Provider, env)
	}
	return key, nil
}
