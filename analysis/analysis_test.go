package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-sector-analyzer/models"
)

const validResponse = "Here is the analysis.\n```json\n" + `{
  "companyName": "Apple Inc.",
  "recommendation": "فرصة دخول محتملة",
  "entryPoint": "حول 150.00 دولار",
  "reasoning": ["MACD crossed up on 4h", "RSI at 45"]
}` + "\n```\nGood luck."

func TestParseResponse(t *testing.T) {
	result, err := ParseResponse(validResponse)
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", result.CompanyName)
	assert.Equal(t, models.RecommendationOpportunity, result.Recommendation)
	require.NotNil(t, result.EntryPoint)
	assert.Equal(t, "حول 150.00 دولار", *result.EntryPoint)
	assert.Equal(t, []string{"MACD crossed up on 4h", "RSI at 45"}, result.Reasoning)
}

func TestParseResponseEntryPoint(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  *string
	}{
		{"null", `null`, nil},
		{"missing", ``, nil},
		{"empty string", `""`, nil},
		{"number", `152.5`, strPtr("152.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := ""
			if tt.entry != "" {
				field = `"entryPoint": ` + tt.entry + `,`
			}
			text := "```json\n{" + field + `"companyName":"X","recommendation":"مراقبة","reasoning":[]}` + "\n```"

			result, err := ParseResponse(text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.EntryPoint)
			assert.Equal(t, models.RecommendationWatch, result.Recommendation)
			assert.Empty(t, result.Reasoning)
		})
	}
}

func TestParseResponseFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind ErrorKind
	}{
		{"no block", "I cannot help with that.", KindMissingJSON},
		{"empty block", "```json\n```", KindMissingJSON},
		{"malformed json", "```json\n{\"companyName\": \n```", KindMalformedJSON},
		{"reasoning not a list", "```json\n{\"companyName\":\"X\",\"recommendation\":\"تجنب\",\"reasoning\":\"bad\"}\n```", KindMalformedJSON},
		{"missing company", "```json\n{\"recommendation\":\"تجنب\",\"reasoning\":[]}\n```", KindInvalidResponse},
		{"missing reasoning", "```json\n{\"companyName\":\"X\",\"recommendation\":\"تجنب\"}\n```", KindInvalidResponse},
		{"unknown recommendation", "```json\n{\"companyName\":\"X\",\"recommendation\":\"buy now\",\"reasoning\":[]}\n```", KindInvalidResponse},
		{"failed is not a model answer", "```json\n{\"companyName\":\"X\",\"recommendation\":\"فشل التحليل\",\"reasoning\":[]}\n```", KindInvalidResponse},
		{"entry point object", "```json\n{\"companyName\":\"X\",\"recommendation\":\"تجنب\",\"reasoning\":[],\"entryPoint\":{}}\n```", KindInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.text)
			var aerr *Error
			require.True(t, errors.As(err, &aerr), "expected *Error, got %v", err)
			assert.Equal(t, tt.kind, aerr.Kind)
			assert.NotEmpty(t, aerr.Error())
		})
	}
}

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(context.Context, string) (string, error) { return f.text, f.err }
func (f fakeGenerator) Model() string                                    { return "fake" }

func TestLLMProvider(t *testing.T) {
	p := NewLLMProvider(fakeGenerator{text: validResponse}, true)
	result, err := p.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", result.CompanyName)

	p = NewLLMProvider(fakeGenerator{err: errors.New("connection reset")}, true)
	_, err = p.Analyze(context.Background(), "AAPL")
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindNetwork, aerr.Kind)
	assert.Equal(t, "AAPL", aerr.Ticker)
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "connection reset")

	p = NewLLMProvider(fakeGenerator{text: "no json here"}, false)
	_, err = p.Analyze(context.Background(), "MSFT")
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, KindMissingJSON, aerr.Kind)
	assert.Equal(t, "MSFT", aerr.Ticker)
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingProvider) Analyze(context.Context, string) (*models.AnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.AnalysisResult{CompanyName: "X", Recommendation: models.RecommendationWatch, Reasoning: []string{}}, nil
}

type mapCache struct {
	data map[string]*models.AnalysisResult
}

func (m *mapCache) GetAnalysis(_ context.Context, ticker string) (*models.AnalysisResult, bool) {
	r, ok := m.data[ticker]
	return r, ok
}

func (m *mapCache) SetAnalysis(_ context.Context, ticker string, r *models.AnalysisResult, _ time.Duration) error {
	m.data[ticker] = r
	return nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{}
	cache := &mapCache{data: map[string]*models.AnalysisResult{}}
	p := NewCachedProvider(inner, cache, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := p.Analyze(context.Background(), "AAPL")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.calls)

	failing := &countingProvider{err: &Error{Ticker: "BAD", Kind: KindNetwork, Err: errors.New("down")}}
	p = NewCachedProvider(failing, cache, time.Minute)
	for i := 0; i < 2; i++ {
		_, err := p.Analyze(context.Background(), "BAD")
		require.Error(t, err)
	}
	assert.Equal(t, 2, failing.calls)
	assert.NotContains(t, cache.data, "BAD")
}

func strPtr(s string) *string { return &s }
