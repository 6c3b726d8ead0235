package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		in   string
		want Recommendation
		ok   bool
	}{
		{LabelOpportunity, RecommendationOpportunity, true},
		{LabelWatch, RecommendationWatch, true},
		{LabelAvoid, RecommendationAvoid, true},
		{"avoid", RecommendationAvoid, true},
		{LabelFailed, RecommendationFailed, true},
		{"buy", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRecommendation(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFailedAnalysis(t *testing.T) {
	stock := StockRecord{Ticker: "BAD", Sector: "Tech", Country: "US"}
	a := FailedAnalysis(stock, "boom")

	assert.True(t, a.Failed())
	assert.Equal(t, "N/A", a.CompanyName)
	assert.Nil(t, a.EntryPoint)
	assert.Equal(t, []string{"boom"}, a.Reasoning)
	assert.Equal(t, stock, a.StockRecord)
	assert.False(t, a.AnalyzedAt.IsZero())
}

func TestStockAnalysisJSON(t *testing.T) {
	a := NewStockAnalysis(
		StockRecord{Ticker: "AAPL", Sector: "Technology", Country: "US"},
		AnalysisResult{CompanyName: "Apple", Recommendation: RecommendationWatch},
	)

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "AAPL", out["ticker"])
	assert.Equal(t, "watch", out["recommendation"])
	assert.Equal(t, LabelWatch, out["label"])
	assert.Equal(t, true, out["showChart"])
	assert.Nil(t, out["entryPoint"])
	assert.Equal(t, []any{}, out["reasoning"])

	raw, err = json.Marshal(FailedAnalysis(a.StockRecord, "x"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, false, out["showChart"])
	assert.Equal(t, LabelFailed, out["label"])
}

func TestGroupedStocks(t *testing.T) {
	g := GroupedStocks{
		"A": {{Ticker: "X"}, {Ticker: "Y"}},
		"B": {{Ticker: "Z"}},
	}
	assert.Equal(t, 3, g.Count())

	stock, group, ok := g.Find("Z")
	require.True(t, ok)
	assert.Equal(t, "B", group)
	assert.Equal(t, "Z", stock.Ticker)

	_, _, ok = g.Find("Q")
	assert.False(t, ok)
}

func TestProgressAnalyzing(t *testing.T) {
	name := "G"
	assert.False(t, Progress{}.Analyzing())
	assert.True(t, Progress{AnalyzingGroupName: &name}.Analyzing())
	assert.True(t, Progress{PendingTickers: []string{"AAPL"}}.Analyzing())
}
