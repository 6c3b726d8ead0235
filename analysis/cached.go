package analysis

import (
	"context"
	"time"

	"github.com/phuslu/log"

	"stock-sector-analyzer/models"
)

// ResultCache stores successful analyses by ticker
type ResultCache interface {
	GetAnalysis(ctx context.Context, ticker string) (*models.AnalysisResult, bool)
	SetAnalysis(ctx context.Context, ticker string, result *models.AnalysisResult, ttl time.Duration) error
}

// CachedProvider serves repeated requests for a ticker from cache for ttl.
// Failures are never cached.
type CachedProvider struct {
	inner Provider
	cache ResultCache
	ttl   time.Duration
}

// NewCachedProvider wraps inner with cache
func NewCachedProvider(inner Provider, cache ResultCache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// Analyze implements Provider
func (c *CachedProvider) Analyze(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	if cached, ok := c.cache.GetAnalysis(ctx, ticker); ok {
		log.Debug().Str("ticker", ticker).Msg("Analysis served from cache")
		return cached, nil
	}

	result, err := c.inner.Analyze(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetAnalysis(ctx, ticker, result, c.ttl); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache analysis")
	}
	return result, nil
}
