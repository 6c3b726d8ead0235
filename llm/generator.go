// Package llm provides the text generators behind the analysis adapter and
// the technical-analysis prompt they are sent.
package llm

import (
	"context"
	"errors"
	"fmt"

	"stock-sector-analyzer/config"
)

var (
	// ErrMissingAPIKey means the provider credential is not configured
	ErrMissingAPIKey = errors.New("LLM API key is not set (LLM_API_KEY or API_KEY)")
	// ErrUnknownProvider means LLM_PROVIDER names no supported backend
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// Provider names accepted in LLM_PROVIDER
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-20250514",
}

// Generator turns a prompt into model text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// DefaultModel returns the model used when LLM_MODEL is empty
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// WebSearchEnabled reports whether prompts may ask for Google Search. Only the
// Gemini backend carries the search tool.
func WebSearchEnabled(cfg config.LLMConfig) bool {
	return cfg.WebSearch && cfg.Provider == ProviderGemini
}

// New builds the generator selected by cfg.Provider
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.APIKey, model, cfg.Temperature, WebSearchEnabled(cfg))
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		return NewClient(cfg.Endpoint, cfg.APIKey, model, cfg.Temperature, cfg.MaxTokens), nil
	case ProviderAnthropic:
		return NewClaudeClient(cfg.APIKey, model, cfg.Temperature, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
