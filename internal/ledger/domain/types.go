package domain

import "github.com/shopspring/decimal"

// FundCategory names a monetary bucket. At most one active fund exists
// per category.
type FundCategory string

const (
	CategoryGeneral      FundCategory = "general"
	CategoryMaintenance  FundCategory = "maintenance"
	CategoryFestival     FundCategory = "festival"
	CategoryAnadhanam    FundCategory = "anadhanam"
	CategoryConstruction FundCategory = "construction"
	CategoryEmergency    FundCategory = "emergency"
)

// Categories lists every valid fund category.
func Categories() []FundCategory {
	return []FundCategory{
		CategoryGeneral,
		CategoryMaintenance,
		CategoryFestival,
		CategoryAnadhanam,
		CategoryConstruction,
		CategoryEmergency,
	}
}

func (c FundCategory) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryMaintenance, CategoryFestival,
		CategoryAnadhanam, CategoryConstruction, CategoryEmergency:
		return true
	}
	return false
}

// PaymentMethod selects the sub-balance a transaction touches.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodUPI  PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	return m == MethodCash || m == MethodUPI
}

// TxType is the direction of a ledger entry.
type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

// TxSource classifies the business event behind a transaction.
type TxSource string

const (
	SourceDonation   TxSource = "donation"
	SourceExpense    TxSource = "expense"
	SourceTransfer   TxSource = "transfer"
	SourceAdjustment TxSource = "adjustment"
)

func (s TxSource) IsValid() bool {
	switch s {
	case SourceDonation, SourceExpense, SourceTransfer, SourceAdjustment:
		return true
	}
	return false
}

// SourceKind tags what a SourceRef points at.
type SourceKind string

const (
	RefDonation SourceKind = "donation"
	RefExpense  SourceKind = "expense"
	RefFund     SourceKind = "fund"
)

// SourceRef is the polymorphic reference from a transaction back to the
// record that caused it. Zero value means no reference (manual adjustment).
type SourceRef struct {
	Kind SourceKind
	ID   string
}

// Balance is the triple of sub-balances a fund carries. Total must equal
// Cash + UPI at all times.
type Balance struct {
	Cash  decimal.Decimal
	UPI   decimal.Decimal
	Total decimal.Decimal
}

// Amount returns the sub-balance for the given method.
func (b Balance) Amount(m PaymentMethod) decimal.Decimal {
	if m == MethodUPI {
		return b.UPI
	}
	return b.Cash
}

// Consistent reports whether Total == Cash + UPI.
func (b Balance) Consistent() bool {
	return b.Total.Equal(b.Cash.Add(b.UPI))
}

// Equal compares all three components.
func (b Balance) Equal(o Balance) bool {
	return b.Cash.Equal(o.Cash) && b.UPI.Equal(o.UPI) && b.Total.Equal(o.Total)
}
