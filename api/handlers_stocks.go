package api

import (
	"context"
	"net/http"
	"time"

	"stock-sector-analyzer/helpers"
	"stock-sector-analyzer/models"
)

// stockView is a stock record with its resolved country name
type stockView struct {
	models.StockRecord
	CountryName string `json:"countryName"`
	Group       string `json:"group,omitempty"`
}

type groupView struct {
	Name   string      `json:"name"`
	Count  int         `json:"count"`
	Stocks []stockView `json:"stocks"`
}

func newStockViews(stocks []models.StockRecord) []stockView {
	views := make([]stockView, 0, len(stocks))
	for _, st := range stocks {
		views = append(views, stockView{StockRecord: st, CountryName: helpers.CountryName(st.Country)})
	}
	return views
}

func (s *Server) handleGetGroups(w http.ResponseWriter, r *http.Request) {
	names, grouped, err := s.catalog.Snapshot()
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, err.Error(), nil)
		return
	}

	groups := make([]groupView, 0, len(names))
	for _, name := range names {
		stocks := grouped[name]
		groups = append(groups, groupView{Name: name, Count: len(stocks), Stocks: newStockViews(stocks)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"groups":   groups,
		"total":    grouped.Count(),
		"loadedAt": s.catalog.LoadedAt(),
	})
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	stocks, ok := s.catalog.Group(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Group not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, groupView{Name: name, Count: len(stocks), Stocks: newStockViews(stocks)})
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid ticker", nil)
		return
	}

	stock, group, found := s.catalog.Find(ticker)
	if !found {
		respondWithError(w, http.StatusNotFound, "Stock not found", nil)
		return
	}

	resp := map[string]any{
		"stock": stockView{StockRecord: stock, CountryName: helpers.CountryName(stock.Country), Group: group},
	}
	if a, ok := s.analyzer.Result(ticker); ok {
		resp["analysis"] = a
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid ticker", nil)
		return
	}
	writeJSON(w, http.StatusOK, NewChartConfig(ticker))
}

func (s *Server) handleReloadStocks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	if err := s.catalog.Reload(ctx); err != nil {
		respondWithError(w, http.StatusBadGateway, err.Error(), err)
		return
	}

	_, grouped, _ := s.catalog.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    grouped.Count(),
		"groups":   len(grouped),
		"loadedAt": s.catalog.LoadedAt(),
	})
}
