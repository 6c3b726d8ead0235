package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/redis/go-redis/v9"

	"stock-sector-analyzer/models"
)

// AnalysisStore caches successful analyses in Redis
type AnalysisStore struct {
	redis *RedisClient
}

// NewAnalysisStore creates an analysis cache on top of redis, which may be nil
func NewAnalysisStore(redis *RedisClient) *AnalysisStore {
	return &AnalysisStore{redis: redis}
}

func analysisKey(ticker string) string {
	return fmt.Sprintf("analysis:result:%s", ticker)
}

// GetAnalysis returns the cached result for ticker
func (s *AnalysisStore) GetAnalysis(ctx context.Context, ticker string) (*models.AnalysisResult, bool) {
	if s.redis == nil {
		return nil, false
	}

	var result models.AnalysisResult
	if err := s.redis.Get(ctx, analysisKey(ticker), &result); err != nil {
		logMiss(err, analysisKey(ticker))
		return nil, false
	}
	if result.Reasoning == nil {
		result.Reasoning = []string{}
	}
	return &result, true
}

// SetAnalysis caches result for ttl
func (s *AnalysisStore) SetAnalysis(ctx context.Context, ticker string, result *models.AnalysisResult, ttl time.Duration) error {
	if s.redis == nil {
		return ErrNotInitialized
	}
	return s.redis.Set(ctx, analysisKey(ticker), result, ttl)
}

// SheetStore caches raw sheet CSV exports in Redis
type SheetStore struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSheetStore creates a CSV cache on top of redis, which may be nil
func NewSheetStore(redis *RedisClient, ttl time.Duration) *SheetStore {
	return &SheetStore{redis: redis, ttl: ttl}
}

func sheetKey(sheetID string) string {
	return fmt.Sprintf("stocks:csv:%s", sheetID)
}

// GetCSV returns the cached export for sheetID
func (s *SheetStore) GetCSV(ctx context.Context, sheetID string) (string, bool) {
	if s.redis == nil {
		return "", false
	}

	var csv string
	if err := s.redis.Get(ctx, sheetKey(sheetID), &csv); err != nil {
		logMiss(err, sheetKey(sheetID))
		return "", false
	}
	return csv, true
}

// SetCSV caches an export
func (s *SheetStore) SetCSV(ctx context.Context, sheetID, csv string) error {
	if s.redis == nil {
		return ErrNotInitialized
	}
	return s.redis.Set(ctx, sheetKey(sheetID), csv, s.ttl)
}

// Invalidate drops the cached export so the next load hits the sheet
func (s *SheetStore) Invalidate(ctx context.Context, sheetID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Delete(ctx, sheetKey(sheetID))
}

func logMiss(err error, key string) {
	if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("Redis read failed")
	}
}
