package api

import (
	"errors"
	"net/http"
	"strings"

	"stock-sector-analyzer/database"
	"stock-sector-analyzer/models"
)

func (s *Server) handleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid ticker", nil)
		return
	}
	if !s.analyzer.Enabled() {
		respondWithError(w, http.StatusServiceUnavailable, models.ErrAnalysisDisabled.Error(), nil)
		return
	}

	stock, _, found := s.catalog.Find(ticker)
	if !found {
		respondWithError(w, http.StatusNotFound, "Stock not found", nil)
		return
	}

	result, err := s.analyzer.AnalyzeIfIdle(r.Context(), stock)
	if errors.Is(err, models.ErrAlreadyPending) {
		respondWithError(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeGroup(w http.ResponseWriter, r *http.Request) {
	if !s.analyzer.Enabled() {
		respondWithError(w, http.StatusServiceUnavailable, models.ErrAnalysisDisabled.Error(), nil)
		return
	}

	name := r.PathValue("name")
	stocks, ok := s.catalog.Group(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Group not found", nil)
		return
	}

	runID, err := s.analyzer.StartGroup(r.Context(), stocks, name)
	if errors.Is(err, models.ErrGroupActive) {
		respondWithError(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to start group analysis", err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"runId":     runID,
		"total":     len(stocks),
		"groupName": name,
	})
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analyzer.Results())
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid ticker", nil)
		return
	}

	result, found := s.analyzer.Result(ticker)
	if !found {
		respondWithError(w, http.StatusNotFound, "No analysis for this ticker", nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p := s.analyzer.Progress()
	writeJSON(w, http.StatusOK, map[string]any{
		"progress":  p,
		"analyzing": p.Analyzing(),
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Analysis history is disabled", nil)
		return
	}

	minLimit, maxLimit := 1, database.MaxHistoryLimit
	limit := getIntParam(r, "limit", 50, &minLimit, &maxLimit)

	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	records, err := s.history.Recent(ticker, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleGetLatestHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Analysis history is disabled", nil)
		return
	}
	ticker, ok := tickerParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid ticker", nil)
		return
	}

	rec, err := s.history.Latest(ticker)
	if database.IsNotArchived(err) {
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
