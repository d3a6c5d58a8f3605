package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// ErrExpenseNotFound is returned when an expense lookup misses.
var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseStatus string

const (
	StatusPending ExpenseStatus = "pending"
	StatusPaid    ExpenseStatus = "paid"
)

// Expense is one outgoing payment request. It stays pending until
// Allocate debits a fund, which stamps the allocation fields and flips
// the status to paid.
// Maps to table: temple.expenses
type Expense struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	VoucherNo   string          `gorm:"uniqueIndex;type:varchar(40);not null"`
	Title       string          `gorm:"type:varchar(120);not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(40);not null"` // expense head, e.g. electricity
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status      ExpenseStatus   `gorm:"type:varchar(12);not null;default:'pending';index"`

	// Allocation stamps, set when the expense is paid.
	FundID       *int64               `gorm:"index"`
	FundCategory ledger.FundCategory  `gorm:"type:varchar(16)"`
	Method       ledger.PaymentMethod `gorm:"type:varchar(8)"`
	PaidBy       string               `gorm:"type:varchar(64)"`
	PaidAt       *time.Time

	CreatedBy string `gorm:"type:varchar(64)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Expense) TableName() string {
	return "temple.expenses"
}
