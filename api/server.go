// Package api serves the dashboard's HTTP API, live event streams and static UI.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phuslu/log"
	"github.com/rs/cors"

	"stock-sector-analyzer/database"
	"stock-sector-analyzer/models"
)

// Catalog exposes the grouped stocks of the last successful load
type Catalog interface {
	Snapshot() ([]string, models.GroupedStocks, error)
	Group(name string) ([]models.StockRecord, bool)
	Find(ticker string) (models.StockRecord, string, bool)
	Reload(ctx context.Context) error
	LoadedAt() time.Time
}

// Analyzer runs analyses and exposes the session state
type Analyzer interface {
	Enabled() bool
	AnalyzeIfIdle(ctx context.Context, stock models.StockRecord) (models.StockAnalysis, error)
	StartGroup(ctx context.Context, stocks []models.StockRecord, groupName string) (string, error)
	Results() []models.StockAnalysis
	Result(ticker string) (models.StockAnalysis, bool)
	Progress() models.Progress
}

// Streamer serves live events
type Streamer interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
	ServeWebSocket(w http.ResponseWriter, r *http.Request)
	ClientCount() int
}

// HistoryStore reads the analysis archive
type HistoryStore interface {
	Recent(ticker string, limit int) ([]database.AnalysisRecord, error)
	Latest(ticker string) (*database.AnalysisRecord, error)
}

// Server handles HTTP API requests
type Server struct {
	catalog   Catalog
	analyzer  Analyzer
	streamer  Streamer
	history   HistoryStore
	publicDir string
}

// NewServer creates a new API server instance
func NewServer(catalog Catalog, analyzer Analyzer, streamer Streamer, publicDir string) *Server {
	return &Server{
		catalog:   catalog,
		analyzer:  analyzer,
		streamer:  streamer,
		publicDir: publicDir,
	}
}

// SetHistory enables the history endpoint
func (s *Server) SetHistory(history HistoryStore) {
	s.history = history
}

// Handler builds the routed handler with middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Live updates
	mux.Handle("GET /api/events", s.streamer)
	mux.HandleFunc("GET /api/ws", s.streamer.ServeWebSocket)

	// Stocks and groups
	mux.HandleFunc("GET /api/groups", s.handleGetGroups)
	mux.HandleFunc("GET /api/groups/{name}", s.handleGetGroup)
	mux.HandleFunc("POST /api/groups/{name}/analyze", s.handleAnalyzeGroup)
	mux.HandleFunc("GET /api/stocks/{ticker}", s.handleGetStock)
	mux.HandleFunc("GET /api/stocks/{ticker}/chart", s.handleGetChart)
	mux.HandleFunc("POST /api/stocks/{ticker}/analyze", s.handleAnalyzeStock)
	mux.HandleFunc("POST /api/stocks/reload", s.handleReloadStocks)

	// Analysis results
	mux.HandleFunc("GET /api/results", s.handleGetResults)
	mux.HandleFunc("GET /api/results/{ticker}", s.handleGetResult)
	mux.HandleFunc("GET /api/progress", s.handleGetProgress)
	mux.HandleFunc("GET /api/history", s.handleGetHistory)
	mux.HandleFunc("GET /api/history/{ticker}/latest", s.handleGetLatestHistory)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	mux.Handle("GET /", http.FileServer(http.Dir(s.publicDir)))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(loggingMiddleware(mux))
}

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, _, loadErr := s.catalog.Snapshot()
	status := map[string]any{
		"status":          "ok",
		"analysisEnabled": s.analyzer.Enabled(),
		"historyEnabled":  s.history != nil,
		"stocksLoaded":    loadErr == nil,
		"streamClients":   s.streamer.ClientCount(),
	}
	if loadedAt := s.catalog.LoadedAt(); !loadedAt.IsZero() {
		status["loadedAt"] = loadedAt
	}
	writeJSON(w, http.StatusOK, status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("HTTP request")
	})
}
