package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"stock-sector-analyzer/analysis"
	"stock-sector-analyzer/database"
	"stock-sector-analyzer/models"
	"stock-sector-analyzer/sector"
)

// Events published to realtime subscribers
const (
	EventAnalysisStarted   = "analysis_started"
	EventAnalysisCompleted = "analysis_completed"
	EventGroupStarted      = "group_started"
	EventGroupProgress     = "group_progress"
	EventGroupCompleted    = "group_completed"
	EventStocksLoaded      = "stocks_loaded"
)

// EventPublisher receives orchestration events
type EventPublisher interface {
	Broadcast(event string, payload any)
}

// AnalysisArchive stores finished analyses
type AnalysisArchive interface {
	SaveAnalysis(rec *database.AnalysisRecord) error
}

// GroupNotifier is told about finished group runs
type GroupNotifier interface {
	NotifyGroupCompleted(summary models.GroupSummary)
}

// Orchestrator runs single-stock and group analyses against a provider and
// records every outcome in its session.
type Orchestrator struct {
	provider analysis.Provider
	session  *Session
	events   EventPublisher
	archive  AnalysisArchive
	notifier GroupNotifier
	model    string
}

// NewOrchestrator creates an orchestrator. provider may be nil, in which case
// every analysis fails with models.ErrAnalysisDisabled. events may be nil.
func NewOrchestrator(provider analysis.Provider, session *Session, events EventPublisher) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		session:  session,
		events:   events,
	}
}

// SetArchive enables the analysis history archive; model is stored with each row
func (o *Orchestrator) SetArchive(archive AnalysisArchive, model string) {
	o.archive = archive
	o.model = model
}

// SetNotifier sets the group completion notifier
func (o *Orchestrator) SetNotifier(n GroupNotifier) {
	o.notifier = n
}

// Results returns every stored analysis sorted by ticker
func (o *Orchestrator) Results() []models.StockAnalysis {
	return o.session.Results()
}

// Result returns the latest analysis for ticker
func (o *Orchestrator) Result(ticker string) (models.StockAnalysis, bool) {
	return o.session.Result(ticker)
}

// Progress returns a snapshot of the in-flight work
func (o *Orchestrator) Progress() models.Progress {
	return o.session.Progress()
}

// Enabled reports whether an analysis provider is configured
func (o *Orchestrator) Enabled() bool {
	return o.provider != nil
}

// AnalyzeOne analyzes a single stock. It never fails: provider errors become a
// failed analysis. Duplicate calls for the same ticker are not suppressed and
// the later completion wins. Cancelling ctx does not stop a started analysis.
func (o *Orchestrator) AnalyzeOne(ctx context.Context, stock models.StockRecord) models.StockAnalysis {
	o.session.markPending(stock.Ticker)
	return o.perform(context.WithoutCancel(ctx), stock, "")
}

// AnalyzeIfIdle analyzes a stock unless an analysis for it is already in flight.
// Like AnalyzeOne it runs to completion even if ctx is cancelled.
func (o *Orchestrator) AnalyzeIfIdle(ctx context.Context, stock models.StockRecord) (models.StockAnalysis, error) {
	if !o.session.tryMarkPending(stock.Ticker) {
		return models.StockAnalysis{}, models.ErrAlreadyPending
	}
	return o.perform(context.WithoutCancel(ctx), stock, ""), nil
}

// AnalyzeGroup analyzes every stock concurrently and returns once all have
// settled. Each result is stored as soon as it completes.
func (o *Orchestrator) AnalyzeGroup(ctx context.Context, stocks []models.StockRecord, groupName string) models.GroupSummary {
	runID := uuid.NewString()
	o.session.beginGroup(runID, groupName, len(stocks))
	return o.runGroup(context.WithoutCancel(ctx), runID, groupName, stocks)
}

// StartGroup begins a group run in the background and returns its run ID.
// It fails with models.ErrGroupActive while another run is in flight.
func (o *Orchestrator) StartGroup(ctx context.Context, stocks []models.StockRecord, groupName string) (string, error) {
	runID := uuid.NewString()
	if !o.session.tryBeginGroup(runID, groupName, len(stocks)) {
		return "", models.ErrGroupActive
	}

	// the run outlives the request that started it
	go o.runGroup(context.WithoutCancel(ctx), runID, groupName, stocks)
	return runID, nil
}

func (o *Orchestrator) runGroup(ctx context.Context, runID, groupName string, stocks []models.StockRecord) models.GroupSummary {
	started := time.Now()
	log.Info().Str("run_id", runID).Str("group", groupName).Int("total", len(stocks)).Msg("🚀 Group analysis started")
	o.publish(EventGroupStarted, map[string]any{
		"runId":     runID,
		"groupName": groupName,
		"total":     len(stocks),
	})

	var (
		mu      sync.Mutex
		results = make([]models.StockAnalysis, 0, len(stocks))
		g       errgroup.Group
	)
	for _, stock := range stocks {
		o.session.markPending(stock.Ticker)
		g.Go(func() error {
			a := o.perform(ctx, stock, runID)
			mu.Lock()
			results = append(results, a)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	progress := o.session.endGroup(runID)
	summary := models.GroupSummary{
		RunID:         runID,
		GroupName:     groupName,
		Total:         len(stocks),
		Completed:     len(results),
		Opportunities: []string{},
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
	for _, a := range results {
		switch a.Recommendation {
		case models.RecommendationFailed:
			summary.Failed++
		case models.RecommendationOpportunity:
			summary.Opportunities = append(summary.Opportunities, a.Ticker)
		}
	}

	log.Info().
		Str("run_id", runID).
		Str("group", groupName).
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Dur("took", summary.FinishedAt.Sub(started)).
		Msg("✅ Group analysis completed")
	o.publish(EventGroupCompleted, map[string]any{
		"summary":  summary,
		"progress": progress,
	})
	if o.notifier != nil {
		o.notifier.NotifyGroupCompleted(summary)
	}
	return summary
}

// perform runs one analysis for a ticker the caller has already marked
// pending. The pending mark is cleared and the result stored on every path.
func (o *Orchestrator) perform(ctx context.Context, stock models.StockRecord, runID string) (result models.StockAnalysis) {
	o.publish(EventAnalysisStarted, map[string]any{"ticker": stock.Ticker, "runId": runID})

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("ticker", stock.Ticker).Interface("panic", r).Msg("Analysis panicked")
			result = models.FailedAnalysis(stock, fmt.Sprintf("failed to analyze %s: %v", stock.Ticker, r))
		}

		progress := o.session.complete(result, runID)
		o.publish(EventAnalysisCompleted, result)
		if runID != "" {
			o.publish(EventGroupProgress, progress)
		}
		o.record(result, runID)
	}()

	if o.provider == nil {
		return models.FailedAnalysis(stock, models.ErrAnalysisDisabled.Error())
	}

	res, err := o.provider.Analyze(ctx, stock.Ticker)
	if err != nil {
		return models.FailedAnalysis(stock, err.Error())
	}
	if res == nil {
		return models.FailedAnalysis(stock, fmt.Sprintf("failed to analyze %s: empty analysis", stock.Ticker))
	}
	return models.NewStockAnalysis(stock, *res)
}

func (o *Orchestrator) record(a models.StockAnalysis, runID string) {
	if o.archive == nil {
		return
	}
	rec := database.NewAnalysisRecord(a, sector.Classify(strings.TrimSpace(a.Sector)), runID, o.model)
	if err := o.archive.SaveAnalysis(rec); err != nil {
		log.Warn().Err(err).Str("ticker", a.Ticker).Msg("Failed to archive analysis")
	}
}

func (o *Orchestrator) publish(event string, payload any) {
	if o.events != nil {
		o.events.Broadcast(event, payload)
	}
}
