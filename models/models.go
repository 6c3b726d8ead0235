// Package models holds the data types shared by the loader, the analysis
// adapter, the orchestrator and the HTTP layer.
package models

import (
	"encoding/json"
	"regexp"
	"time"
)

// TickerPattern matches a valid exchange symbol
var TickerPattern = regexp.MustCompile(`^[A-Z0-9.]+$`)

// StockRecord is one row of the stock spreadsheet
type StockRecord struct {
	Ticker  string `json:"ticker"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
}

// GroupedStocks maps a canonical group label to the stocks classified under it
type GroupedStocks map[string][]StockRecord

// Count returns the number of stocks across all groups
func (g GroupedStocks) Count() int {
	total := 0
	for _, stocks := range g {
		total += len(stocks)
	}
	return total
}

// Find returns the stock with the given ticker and the group it belongs to
func (g GroupedStocks) Find(ticker string) (StockRecord, string, bool) {
	for name, stocks := range g {
		for _, s := range stocks {
			if s.Ticker == ticker {
				return s, name, true
			}
		}
	}
	return StockRecord{}, "", false
}

// Recommendation is the outcome of a technical analysis
type Recommendation string

const (
	RecommendationOpportunity Recommendation = "opportunity"
	RecommendationWatch       Recommendation = "watch"
	RecommendationAvoid       Recommendation = "avoid"
	RecommendationFailed      Recommendation = "failed"
)

// Arabic labels used by the analysis prompt and the dashboard
const (
	LabelOpportunity = "فرصة دخول محتملة"
	LabelWatch       = "مراقبة"
	LabelAvoid       = "تجنب"
	LabelFailed      = "فشل التحليل"
)

var recommendationLabels = map[Recommendation]string{
	RecommendationOpportunity: LabelOpportunity,
	RecommendationWatch:       LabelWatch,
	RecommendationAvoid:       LabelAvoid,
	RecommendationFailed:      LabelFailed,
}

// Label returns the localized display label
func (r Recommendation) Label() string {
	if label, ok := recommendationLabels[r]; ok {
		return label
	}
	return string(r)
}

// ParseRecommendation maps a model-provided label (Arabic or English key) to a Recommendation
func ParseRecommendation(s string) (Recommendation, bool) {
	for rec, label := range recommendationLabels {
		if s == label || s == string(rec) {
			return rec, true
		}
	}
	return "", false
}

// AnalysisResult is what the analysis provider returns for a ticker
type AnalysisResult struct {
	CompanyName    string         `json:"companyName"`
	Recommendation Recommendation `json:"recommendation"`
	EntryPoint     *string        `json:"entryPoint"`
	Reasoning      []string       `json:"reasoning"`
}

// StockAnalysis is an AnalysisResult merged with its originating StockRecord
type StockAnalysis struct {
	StockRecord
	AnalysisResult
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// Failed reports whether the analysis could not be produced
func (a StockAnalysis) Failed() bool {
	return a.Recommendation == RecommendationFailed
}

// MarshalJSON adds the display label and whether a chart should be rendered
func (a StockAnalysis) MarshalJSON() ([]byte, error) {
	type plain StockAnalysis
	return json.Marshal(struct {
		plain
		Label     string `json:"label"`
		ShowChart bool   `json:"showChart"`
	}{
		plain:     plain(a),
		Label:     a.Recommendation.Label(),
		ShowChart: !a.Failed(),
	})
}

// NewStockAnalysis merges a provider result into the stock record
func NewStockAnalysis(stock StockRecord, result AnalysisResult) StockAnalysis {
	if result.Reasoning == nil {
		result.Reasoning = []string{}
	}
	return StockAnalysis{
		StockRecord:    stock,
		AnalysisResult: result,
		AnalyzedAt:     time.Now(),
	}
}

// FailedAnalysis builds the synthetic result substituted for a provider failure
func FailedAnalysis(stock StockRecord, message string) StockAnalysis {
	return NewStockAnalysis(stock, AnalysisResult{
		CompanyName:    "N/A",
		Recommendation: RecommendationFailed,
		EntryPoint:     nil,
		Reasoning:      []string{message},
	})
}

// Progress is a snapshot of the session's in-flight work
type Progress struct {
	RunID              string     `json:"runId,omitempty"`
	AnalyzingGroupName *string    `json:"analyzingGroupName"`
	Completed          int        `json:"completed"`
	Total              int        `json:"total"`
	PendingTickers     []string   `json:"pendingTickers"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
}

// Analyzing reports whether a group run or any single analysis is in flight
func (p Progress) Analyzing() bool {
	return p.AnalyzingGroupName != nil || len(p.PendingTickers) > 0
}

// GroupSummary describes a finished group run
type GroupSummary struct {
	RunID         string    `json:"runId"`
	GroupName     string    `json:"groupName"`
	Total         int       `json:"total"`
	Completed     int       `json:"completed"`
	Failed        int       `json:"failed"`
	Opportunities []string  `json:"opportunities"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}
