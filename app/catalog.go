package app

import (
	"context"
	"sync"
	"time"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	"stock-sector-analyzer/models"
	"stock-sector-analyzer/sector"
)

// StockSource loads stock records from a spreadsheet URL
type StockSource interface {
	FetchStocks(ctx context.Context, sheetURL string) ([]models.StockRecord, error)
	Invalidate(ctx context.Context, sheetURL string) error
}

// Catalog holds the grouped stocks of the most recent successful load
type Catalog struct {
	source   StockSource
	sheetURL string
	events   EventPublisher

	mu       sync.RWMutex
	grouped  models.GroupedStocks
	names    []string
	loadErr  error
	loadedAt time.Time
}

// NewCatalog creates an empty catalog reading from sheetURL
func NewCatalog(source StockSource, sheetURL string, events EventPublisher) *Catalog {
	return &Catalog{
		source:   source,
		sheetURL: sheetURL,
		events:   events,
	}
}

// Load fetches and groups the spreadsheet. A failed load keeps the stocks of
// the previous successful load; the error is only reported while none exists.
func (c *Catalog) Load(ctx context.Context) error {
	stocks, err := c.source.FetchStocks(ctx, c.sheetURL)
	if err != nil {
		c.mu.Lock()
		c.loadErr = err
		c.mu.Unlock()
		log.Error().Err(err).Msg("❌ Failed to load stocks")
		return err
	}

	grouped := sector.GroupStocks(stocks)
	names := sector.SortedNames(grouped)

	c.mu.Lock()
	c.grouped = grouped
	c.names = names
	c.loadErr = nil
	c.loadedAt = time.Now()
	c.mu.Unlock()

	log.Info().Int("stocks", len(stocks)).Int("groups", len(names)).Msg("📊 Stocks loaded")
	if c.events != nil {
		c.events.Broadcast(EventStocksLoaded, map[string]any{
			"count":  len(stocks),
			"groups": len(names),
		})
	}
	return nil
}

// Reload drops any cached export and loads the spreadsheet again
func (c *Catalog) Reload(ctx context.Context) error {
	if err := c.source.Invalidate(ctx, c.sheetURL); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate cached sheet export")
	}
	return c.Load(ctx)
}

// Snapshot returns the group names in display order with their stocks, or the
// load error when no load has succeeded.
func (c *Catalog) Snapshot() ([]string, models.GroupedStocks, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.grouped == nil {
		if c.loadErr != nil {
			return nil, nil, c.loadErr
		}
		return nil, nil, models.ErrNotLoaded
	}
	return c.names, c.grouped, nil
}

// Group returns the stocks of one group
func (c *Catalog) Group(name string) ([]models.StockRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stocks, ok := c.grouped[name]
	return stocks, ok
}

// Find returns the stock with ticker and its group name
func (c *Catalog) Find(ticker string) (models.StockRecord, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.grouped.Find(ticker)
}

// LoadedAt returns the time of the last successful load
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Schedule reloads the catalog on a cron spec until ctx is done
func (c *Catalog) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		if err := c.Reload(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️ Scheduled stock reload failed")
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Info().Str("spec", spec).Msg("⏰ Scheduled stock reloads")

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}()
	return scheduler, nil
}
