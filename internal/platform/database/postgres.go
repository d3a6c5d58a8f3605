package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	donation "github.com/hk2807/sevaledger/backend/internal/donation/domain"
	expense "github.com/hk2807/sevaledger/backend/internal/expense/domain"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// NewPostgresDB opens the connection pool the whole process shares.
func NewPostgresDB(dsn string, maxIdleConns, maxOpenConns int) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

// Migrate creates the temple schema and keeps the tables in step with
// the domain models.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS temple").Error; err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return db.AutoMigrate(
		&ledger.Fund{},
		&ledger.LedgerTransaction{},
		&donation.Donation{},
		&expense.Expense{},
	)
}
