package llm

import (
	"context"
	"testing"
)

func TestNewGemini_RequiresKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := NewGemini(context.Background(), &Config{Provider: "gemini"}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNewGemini_DefaultModel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "g-test")
	p, err := NewFromConfig(context.Background(), &Config{Provider: "gemini"})
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if p.ModelID() != "gemini:"+defaultGeminiModel {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}
