package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient generates analyses with the Gemini API, optionally grounded
// with Google Search so the model sees recent news
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	webSearch   bool
}

// NewGeminiClient creates a Gemini-backed generator
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64, webSearch bool) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		webSearch:   webSearch,
	}, nil
}

// Generate sends a single-turn prompt and returns the response text
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.webSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

// Model returns the configured model name
func (g *GeminiClient) Model() string {
	return g.model
}
