// Package database archives completed stock analyses in PostgreSQL using GORM.
//
// The archive is write-mostly: every analysis the dashboard produces is
// appended as a row, and the history endpoint reads the most recent rows
// back. Session state is never rebuilt from the archive.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the GORM connection
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AnalysisRecord is one archived analysis
type AnalysisRecord struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker         string    `gorm:"type:text;index;not null" json:"ticker"`
	Sector         string    `gorm:"type:text" json:"sector"`
	Country        string    `gorm:"type:text" json:"country"`
	SectorGroup    string    `gorm:"type:text" json:"sectorGroup"`
	CompanyName    string    `gorm:"type:text" json:"companyName"`
	Recommendation string    `gorm:"type:text;index" json:"recommendation"`
	EntryPoint     *string   `gorm:"type:text" json:"entryPoint"`
	Reasoning      []string  `gorm:"serializer:json" json:"reasoning"`
	RunID          *string   `gorm:"type:text;index" json:"runId,omitempty"`
	Model          string    `gorm:"type:text" json:"model,omitempty"`
	AnalyzedAt     time.Time `gorm:"index;not null" json:"analyzedAt"`
}

// TableName overrides the table name
func (AnalysisRecord) TableName() string {
	return "analysis_history"
}

// WebhookDelivery logs one webhook delivery attempt sequence
type WebhookDelivery struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	URL            string    `gorm:"type:text;not null" json:"url"`
	Event          string    `gorm:"type:text;index" json:"event"`
	RunID          string    `gorm:"type:text;index" json:"runId"`
	TriggeredAt    time.Time `gorm:"index;not null" json:"triggeredAt"`
	Status         string    `gorm:"type:text" json:"status"` // SUCCESS, FAILED
	HTTPStatusCode *int      `json:"httpStatusCode,omitempty"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	Attempts       int       `gorm:"default:0" json:"attempts"`
}

// TableName overrides the table name
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
