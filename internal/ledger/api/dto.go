package api

import (
	"time"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// CreateFundReq creates (or returns) the fund for a category.
type CreateFundReq struct {
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
}

// TransferReq moves money between two fund categories.
type TransferReq struct {
	FromCategory string `json:"from_category" binding:"required"`
	ToCategory   string `json:"to_category" binding:"required"`
	Method       string `json:"method" binding:"required,oneof=cash upi"`
	Amount       string `json:"amount" binding:"required"` // decimal string
	Description  string `json:"description"`
}

// AdjustmentReq is a manual credit or debit against one fund.
type AdjustmentReq struct {
	Type        string `json:"type" binding:"required,oneof=credit debit"`
	Method      string `json:"method" binding:"required,oneof=cash upi"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// BalanceResp serializes a balance triple with string amounts.
type BalanceResp struct {
	Cash  string `json:"cash"`
	UPI   string `json:"upi"`
	Total string `json:"total"`
}

// FundResp is the public view of a fund.
type FundResp struct {
	ID          int64       `json:"id"`
	Code        string      `json:"code"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Balance     BalanceResp `json:"balance"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TransactionResp is the public view of one ledger entry.
type TransactionResp struct {
	ID           int64       `json:"id"`
	FundID       int64       `json:"fund_id"`
	Type         string      `json:"type"`
	Source       string      `json:"source"`
	SourceType   string      `json:"source_type,omitempty"`
	SourceID     string      `json:"source_id,omitempty"`
	Method       string      `json:"method"`
	Amount       string      `json:"amount"`
	BalanceAfter BalanceResp `json:"balance_after"`
	Description  string      `json:"description"`
	PerformedBy  string      `json:"performed_by"`
	Date         time.Time   `json:"date"`
}

func toBalanceResp(b domain.Balance) BalanceResp {
	return BalanceResp{
		Cash:  b.Cash.String(),
		UPI:   b.UPI.String(),
		Total: b.Total.String(),
	}
}

func toFundResp(f *domain.Fund) FundResp {
	return FundResp{
		ID:          f.ID,
		Code:        f.Code,
		Category:    string(f.Category),
		Description: f.Description,
		Balance:     toBalanceResp(f.Balance()),
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
	}
}

func toTransactionResp(t *domain.LedgerTransaction) TransactionResp {
	return TransactionResp{
		ID:           t.ID,
		FundID:       t.FundID,
		Type:         string(t.Type),
		Source:       string(t.Source),
		SourceType:   string(t.SourceType),
		SourceID:     t.SourceID,
		Method:       string(t.Method),
		Amount:       t.Amount.String(),
		BalanceAfter: toBalanceResp(t.BalanceAfter()),
		Description:  t.Description,
		PerformedBy:  t.PerformedBy,
		Date:         t.Date,
	}
}
