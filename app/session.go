package app

import (
	"sort"
	"sync"
	"time"

	"stock-sector-analyzer/models"
)

// Session is the dashboard state shared by every request: the latest
// analysis per ticker, the in-flight tickers and the current group run.
type Session struct {
	mu      sync.RWMutex
	results map[string]models.StockAnalysis
	// pending counts in-flight analyses per ticker; a ticker is pending while its count is positive
	pending map[string]int
	run     groupRun
}

type groupRun struct {
	id        string
	name      string
	active    bool
	completed int
	total     int
	startedAt time.Time
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{
		results: make(map[string]models.StockAnalysis),
		pending: make(map[string]int),
	}
}

// Results returns every stored analysis sorted by ticker
func (s *Session) Results() []models.StockAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StockAnalysis, 0, len(s.results))
	for _, a := range s.results {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// Result returns the latest analysis for ticker
func (s *Session) Result(ticker string) (models.StockAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.results[ticker]
	return a, ok
}

// IsPending reports whether an analysis of ticker is in flight
func (s *Session) IsPending(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[ticker] > 0
}

// GroupActive reports whether a group run is in flight
func (s *Session) GroupActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run.active
}

// Progress returns a snapshot of the in-flight work
func (s *Session) Progress() models.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() models.Progress {
	p := models.Progress{
		RunID:          s.run.id,
		Completed:      s.run.completed,
		Total:          s.run.total,
		PendingTickers: make([]string, 0, len(s.pending)),
	}
	if s.run.active {
		name := s.run.name
		p.AnalyzingGroupName = &name
	}
	if !s.run.startedAt.IsZero() {
		started := s.run.startedAt
		p.StartedAt = &started
	}
	for ticker := range s.pending {
		p.PendingTickers = append(p.PendingTickers, ticker)
	}
	sort.Strings(p.PendingTickers)
	return p
}

func (s *Session) markPending(ticker string) {
	s.mu.Lock()
	s.pending[ticker]++
	s.mu.Unlock()
}

// tryMarkPending marks ticker pending only if nothing is in flight for it
func (s *Session) tryMarkPending(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[ticker] > 0 {
		return false
	}
	s.pending[ticker]++
	return true
}

// complete stores a finished analysis, clears one pending mark for its ticker
// and, when runID is the active run, advances the run counter.
func (s *Session) complete(a models.StockAnalysis, runID string) models.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[a.Ticker] = a

	if n := s.pending[a.Ticker]; n <= 1 {
		delete(s.pending, a.Ticker)
	} else {
		s.pending[a.Ticker] = n - 1
	}

	if runID != "" && runID == s.run.id && s.run.active && s.run.completed < s.run.total {
		s.run.completed++
	}
	return s.progressLocked()
}

func (s *Session) beginGroup(runID, name string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startRunLocked(runID, name, total)
}

// tryBeginGroup starts a run only if no other run is active
func (s *Session) tryBeginGroup(runID, name string, total int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run.active {
		return false
	}
	s.startRunLocked(runID, name, total)
	return true
}

func (s *Session) startRunLocked(runID, name string, total int) {
	s.run = groupRun{
		id:        runID,
		name:      name,
		active:    true,
		total:     total,
		startedAt: time.Now(),
	}
}

// endGroup clears the group marker if runID is still the current run
func (s *Session) endGroup(runID string) models.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run.id == runID {
		s.run.active = false
	}
	return s.progressLocked()
}
