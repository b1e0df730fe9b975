package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
//
// It uses the REST endpoint:
//
//	POST {baseURL}/chat/completions
//
// with a system and a user message, plus response_format json_object when
// JSON output is requested.
type OpenAI struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAI constructs an OpenAI-compatible provider.
func NewOpenAI(cfg *Config) *OpenAI {
	return &OpenAI{
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *OpenAI) ModelID() string {
	return "openai:" + p.model
}

func (p *OpenAI) Generate(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if p.model == "" {
		return "", fmt.Errorf("llm model is not configured (set SCOUT_LLM_MODEL)")
	}
	if p.apiKey == "" {
		return "", fmt.Errorf("llm API key is not configured (set SCOUT_LLM_API_KEY)")
	}

	wire := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if jsonMode {
		wire.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("llm/openai: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("llm/openai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm/openai: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readProviderError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("llm/openai: decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

// --- OpenAI wire types ---

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}
