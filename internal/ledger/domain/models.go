package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund is one monetary bucket of the temple trust.
// Maps to table: temple.funds
type Fund struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Code         string          `gorm:"uniqueIndex;type:varchar(32);not null"`
	Category     FundCategory    `gorm:"type:varchar(16);not null;index"`
	Description  string          `gorm:"type:text"`
	BalanceCash  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	BalanceUPI   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	BalanceTotal decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Version      int64           `gorm:"not null;default:1"` // optimistic lock
	IsActive     bool            `gorm:"not null;default:true;index"`
	CreatedBy    string          `gorm:"type:varchar(64)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Fund) TableName() string {
	return "temple.funds"
}

// Balance returns the fund's live balance triple.
func (f *Fund) Balance() Balance {
	return Balance{Cash: f.BalanceCash, UPI: f.BalanceUPI, Total: f.BalanceTotal}
}

// LedgerTransaction is one immutable ledger entry. Rows are append-only;
// nothing in the codebase updates or deletes them.
// Maps to table: temple.fund_transactions
type LedgerTransaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	FundID      int64           `gorm:"not null;index"`
	Type        TxType          `gorm:"type:varchar(8);not null"`
	Source      TxSource        `gorm:"type:varchar(16);not null"`
	SourceType  SourceKind      `gorm:"type:varchar(16)"`
	SourceID    string          `gorm:"type:varchar(64);index"`
	Method      PaymentMethod   `gorm:"type:varchar(8);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"` // always > 0
	AfterCash   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AfterUPI    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AfterTotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description string          `gorm:"type:text"`
	PerformedBy string          `gorm:"type:varchar(64);not null"`
	Date        time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time
}

func (LedgerTransaction) TableName() string {
	return "temple.fund_transactions"
}

// BalanceAfter returns the persisted post-mutation snapshot.
func (t *LedgerTransaction) BalanceAfter() Balance {
	return Balance{Cash: t.AfterCash, UPI: t.AfterUPI, Total: t.AfterTotal}
}
