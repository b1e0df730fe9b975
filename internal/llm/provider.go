// Package llm provides the text-generation capability used to draft
// interview questions and to judge answers.
package llm

import (
	"context"
	"fmt"

	"github.com/kamusis/agent-scout/internal/config"
)

// Provider generates text from a system prompt and a user prompt.
//
// When jsonMode is true the provider asks the model for a single JSON object.
// Callers must still validate what comes back.
type Provider interface {
	ModelID() string
	Generate(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// Config contains the resolved LLM configuration.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// LoadConfig resolves LLM config from environment variables first, then ~/.scout/.env.
func LoadConfig() (*Config, error) {
	provider, err := config.GetConfigValue("SCOUT_LLM_PROVIDER")
	if err != nil {
		return nil, err
	}
	model, err := config.GetConfigValue("SCOUT_LLM_MODEL")
	if err != nil {
		return nil, err
	}
	apiKey, err := config.GetConfigValue("SCOUT_LLM_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL, err := config.GetConfigValue("SCOUT_LLM_BASE_URL")
	if err != nil {
		return nil, err
	}
	if provider == "" {
		provider = "openai"
	}
	if baseURL == "" && provider == "openai" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Config{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  baseURL,
	}, nil
}

// NewFromConfig returns an LLM provider.
func NewFromConfig(ctx context.Context, cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is nil")
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg), nil
	case "gemini":
		p, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, fmt.Errorf("llm provider is not configured (set SCOUT_LLM_PROVIDER)")
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
