package api

import (
	"time"

	"github.com/hk2807/sevaledger/backend/internal/expense/domain"
)

type CreateExpenseReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

type AllocateExpenseReq struct {
	FundCategory string `json:"fund_category" binding:"required"`
	Method       string `json:"method" binding:"required,oneof=cash upi"`
}

type ExpenseResp struct {
	ID           int64      `json:"id"`
	VoucherNo    string     `json:"voucher_no"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	Amount       string     `json:"amount"`
	Status       string     `json:"status"`
	FundID       *int64     `json:"fund_id,omitempty"`
	FundCategory string     `json:"fund_category,omitempty"`
	Method       string     `json:"method,omitempty"`
	PaidBy       string     `json:"paid_by,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toExpenseResp(e *domain.Expense) ExpenseResp {
	return ExpenseResp{
		ID:           e.ID,
		VoucherNo:    e.VoucherNo,
		Title:        e.Title,
		Description:  e.Description,
		Category:     e.Category,
		Amount:       e.Amount.String(),
		Status:       string(e.Status),
		FundID:       e.FundID,
		FundCategory: string(e.FundCategory),
		Method:       string(e.Method),
		PaidBy:       e.PaidBy,
		PaidAt:       e.PaidAt,
		CreatedAt:    e.CreatedAt,
	}
}
