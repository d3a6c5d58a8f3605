package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// ErrDonationNotFound is returned when a donation lookup misses.
var ErrDonationNotFound = errors.New("donation not found")

// DonationType distinguishes monetary donations from in-kind offerings.
// Only cash and upi post to funds.
type DonationType string

const (
	DonationCash   DonationType = "cash"
	DonationUPI    DonationType = "upi"
	DonationInKind DonationType = "inkind"
)

func (t DonationType) IsValid() bool {
	return t == DonationCash || t == DonationUPI || t == DonationInKind
}

// IsMonetary reports whether the donation carries money a fund can hold.
func (t DonationType) IsMonetary() bool {
	return t == DonationCash || t == DonationUPI
}

// Method maps a monetary donation type onto the fund sub-balance it
// credits.
func (t DonationType) Method() ledger.PaymentMethod {
	if t == DonationUPI {
		return ledger.MethodUPI
	}
	return ledger.MethodCash
}

type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusProcessed DonationStatus = "processed"
)

// Donation is one devotee contribution.
// Maps to table: temple.donations
type Donation struct {
	ID           int64               `gorm:"primaryKey;autoIncrement"`
	ReceiptNo    string              `gorm:"uniqueIndex;type:varchar(40);not null"`
	DonorName    string              `gorm:"type:varchar(100);not null"`
	DonorPhone   string              `gorm:"type:varchar(20)"`
	Type         DonationType        `gorm:"type:varchar(8);not null"`
	Amount       decimal.Decimal     `gorm:"type:decimal(14,2);not null;default:0"`
	FundCategory ledger.FundCategory `gorm:"type:varchar(16);not null;default:'general'"`
	Status       DonationStatus      `gorm:"type:varchar(12);not null;default:'pending';index"`
	Notes        string              `gorm:"type:text"`
	CreatedBy    string              `gorm:"type:varchar(64)"`
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Donation) TableName() string {
	return "temple.donations"
}
