package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamusis/agent-scout/internal/config"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini implements Provider using Google GenAI.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider. An empty API key falls back to
// GOOGLE_API_KEY, resolved the same way as the SCOUT_* settings.
func NewGemini(ctx context.Context, cfg *Config) (*Gemini, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		v, err := config.GetConfigValue("GOOGLE_API_KEY")
		if err != nil {
			return nil, err
		}
		apiKey = v
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured (set SCOUT_LLM_API_KEY or GOOGLE_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (p *Gemini) ModelID() string {
	return "gemini:" + p.model
}

func (p *Gemini) Generate(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if jsonMode {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(user), gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
