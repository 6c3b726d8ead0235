package database

import (
	"errors"
	"strings"

	"github.com/phuslu/log"
	"gorm.io/gorm"

	"stock-sector-analyzer/models"
)

// MaxHistoryLimit caps the number of rows returned by Recent
const MaxHistoryLimit = 500

// HistoryRepository reads and writes the analysis archive
type HistoryRepository struct {
	db *Database
}

// NewHistoryRepository creates a repository on db
func NewHistoryRepository(db *Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InitSchema creates the archive tables
func (r *HistoryRepository) InitSchema() error {
	log.Info().Msg("🔄 Running database migrations...")
	if err := r.db.db.AutoMigrate(&AnalysisRecord{}, &WebhookDelivery{}); err != nil {
		return storeErr("InitSchema", err)
	}
	log.Info().Msg("✅ Database migrations completed")
	return nil
}

// NewAnalysisRecord flattens an analysis into an archive row
func NewAnalysisRecord(a models.StockAnalysis, group, runID, model string) *AnalysisRecord {
	rec := &AnalysisRecord{
		Ticker:         a.Ticker,
		Sector:         a.Sector,
		Country:        a.Country,
		SectorGroup:    group,
		CompanyName:    a.CompanyName,
		Recommendation: string(a.Recommendation),
		EntryPoint:     a.EntryPoint,
		Reasoning:      a.Reasoning,
		Model:          model,
		AnalyzedAt:     a.AnalyzedAt,
	}
	if runID != "" {
		rec.RunID = &runID
	}
	return rec
}

// SaveAnalysis appends an analysis to the archive
func (r *HistoryRepository) SaveAnalysis(rec *AnalysisRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	return storeErr("SaveAnalysis", r.db.db.Create(rec).Error)
}

// Recent returns the newest archived analyses, optionally for one ticker
func (r *HistoryRepository) Recent(ticker string, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := r.db.db.Order("analyzed_at DESC").Limit(limit)
	if ticker = strings.TrimSpace(ticker); ticker != "" {
		query = query.Where("ticker = ?", ticker)
	}

	var records []AnalysisRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, storeErr("Recent", err)
	}
	return records, nil
}

// Latest returns the newest archived analysis for ticker, or a
// *NotArchivedError when there is none
func (r *HistoryRepository) Latest(ticker string) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	err := r.db.db.Where("ticker = ?", ticker).Order("analyzed_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotArchivedError{Ticker: ticker}
	}
	if err != nil {
		return nil, storeErr("Latest", err)
	}
	return &rec, nil
}

// SaveWebhookDelivery logs a webhook delivery
func (r *HistoryRepository) SaveWebhookDelivery(d *WebhookDelivery) error {
	return storeErr("SaveWebhookDelivery", r.db.db.Create(d).Error)
}

func validateRecord(rec *AnalysisRecord) error {
	if rec == nil {
		return &RecordError{Field: "record", Reason: "must not be nil"}
	}
	if rec.Ticker == "" {
		return &RecordError{Field: "ticker", Reason: "must not be empty"}
	}
	if !models.TickerPattern.MatchString(rec.Ticker) {
		return &RecordError{Field: "ticker", Reason: "must match " + models.TickerPattern.String(), Value: rec.Ticker}
	}
	if rec.AnalyzedAt.IsZero() {
		return &RecordError{Field: "analyzed_at", Reason: "must be set"}
	}
	return nil
}
