// Package sheets loads stock records from a public Google Sheet exported as CSV.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/phuslu/log"

	"stock-sector-analyzer/models"
)

var (
	// ErrInvalidSheetURL is returned when no spreadsheet ID can be found in the URL
	ErrInvalidSheetURL = errors.New("no valid Google Sheet ID found in URL")
	// ErrFetchFailed wraps transport and HTTP status failures
	ErrFetchFailed = errors.New("failed to fetch Google Sheet data")
	// ErrNoStocks is returned when the export holds no usable rows
	ErrNoStocks = errors.New("no stock data found in the Google Sheet")
)

var sheetIDPattern = regexp.MustCompile(`spreadsheets/d/([a-zA-Z0-9-_]+)`)

// CSVCache stores raw CSV exports between loads
type CSVCache interface {
	GetCSV(ctx context.Context, sheetID string) (string, bool)
	SetCSV(ctx context.Context, sheetID, csv string) error
}

// Client fetches the CSV export of a spreadsheet
type Client struct {
	baseURL string
	http    *http.Client
	cache   CSVCache
}

// NewClient creates a sheet client. baseURL is the export host, normally
// https://docs.google.com. cache may be nil.
func NewClient(baseURL string, cache CSVCache) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		cache:   cache,
	}
}

// ExtractSheetID returns the spreadsheet ID embedded in a sheet URL
func ExtractSheetID(sheetURL string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(sheetURL)
	if len(m) < 2 || m[1] == "" {
		return "", ErrInvalidSheetURL
	}
	return m[1], nil
}

// CSVURL builds the gviz CSV export URL for a spreadsheet ID
func (c *Client) CSVURL(sheetID string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv", c.baseURL, sheetID)
}

// FetchStocks downloads and parses the spreadsheet behind sheetURL.
// Malformed rows are dropped; a sheet with no valid rows fails with ErrNoStocks.
func (c *Client) FetchStocks(ctx context.Context, sheetURL string) ([]models.StockRecord, error) {
	sheetID, err := ExtractSheetID(sheetURL)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if csv, ok := c.cache.GetCSV(ctx, sheetID); ok {
			log.Debug().Str("sheet_id", sheetID).Msg("Using cached sheet export")
			return nonEmpty(ParseCSV(csv))
		}
	}

	csv, err := c.fetchCSV(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	stocks, err := nonEmpty(ParseCSV(csv))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetCSV(ctx, sheetID, csv); err != nil {
			log.Warn().Err(err).Str("sheet_id", sheetID).Msg("Failed to cache sheet export")
		}
	}

	return stocks, nil
}

// Invalidate drops the cached export for sheetURL when the cache supports it
func (c *Client) Invalidate(ctx context.Context, sheetURL string) error {
	inv, ok := c.cache.(interface {
		Invalidate(ctx context.Context, sheetID string) error
	})
	if !ok {
		return nil
	}

	sheetID, err := ExtractSheetID(sheetURL)
	if err != nil {
		return err
	}
	return inv.Invalidate(ctx, sheetID)
}

func nonEmpty(stocks []models.StockRecord) ([]models.StockRecord, error) {
	if len(stocks) == 0 {
		return nil, ErrNoStocks
	}
	return stocks, nil
}

func (c *Client) fetchCSV(ctx context.Context, sheetID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CSVURL(sheetID), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return string(body), nil
}
