package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-sector-analyzer/config"
	"stock-sector-analyzer/models"
)

func TestFormatTechnicalAnalysisPrompt(t *testing.T) {
	prompt := FormatTechnicalAnalysisPrompt("AAPL", true)

	assert.Contains(t, prompt, `"AAPL"`)
	assert.Contains(t, prompt, "MACD")
	assert.Contains(t, prompt, "RSI")
	assert.Contains(t, prompt, "```json")
	assert.Contains(t, prompt, models.LabelOpportunity)
	assert.Contains(t, prompt, models.LabelWatch)
	assert.Contains(t, prompt, models.LabelAvoid)
	assert.Contains(t, prompt, "بحث جوجل")

	assert.NotContains(t, FormatTechnicalAnalysisPrompt("AAPL", false), "بحث جوجل")
}

func TestWebSearchEnabled(t *testing.T) {
	tests := []struct {
		provider  string
		webSearch bool
		want      bool
	}{
		{ProviderGemini, true, true},
		{ProviderGemini, false, false},
		{ProviderOpenAI, true, false},
		{ProviderAnthropic, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := config.LLMConfig{Provider: tt.provider, WebSearch: tt.webSearch}
			assert.Equal(t, tt.want, WebSearchEnabled(cfg))
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "mystery", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewDefaultsModel(t *testing.T) {
	gen, err := New(context.Background(), config.LLMConfig{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel(ProviderOpenAI), gen.Model())

	gen, err = New(context.Background(), config.LLMConfig{Provider: ProviderAnthropic, APIKey: "k", Model: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", gen.Model())
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req ChatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "test-model", req.Model)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "analyze AAPL", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"done"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", "test-model", 0.3, 512)
	out, err := client.Generate(context.Background(), "analyze AAPL")

	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestClientGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusTooManyRequests, `quota`, "API error 429"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no response choices"},
		{"bad json", http.StatusOK, `{`, "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", "m", 0, 0).Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}
