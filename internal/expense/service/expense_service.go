package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hk2807/sevaledger/backend/internal/expense/domain"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
	ledgersvc "github.com/hk2807/sevaledger/backend/internal/ledger/service"
)

// Ledger is the slice of the fund service expense allocation needs.
// Unlike donation processing, allocation never creates a fund: paying
// out of a category that was never funded is an error.
type Ledger interface {
	GetFundByCategory(ctx context.Context, category ledger.FundCategory) (*ledger.Fund, error)
	Debit(ctx context.Context, fundID int64, req ledgersvc.MutationRequest) (*ledger.LedgerTransaction, error)
}

// CreateRequest records a new expense.
type CreateRequest struct {
	Title       string
	Description string
	Category    string
	Amount      decimal.Decimal
	CreatedBy   string
}

type ExpenseService struct {
	expenses domain.ExpenseRepository
	ledger   Ledger
	logger   *zap.Logger
}

func NewExpenseService(expenses domain.ExpenseRepository, l Ledger, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, ledger: l, logger: logger}
}

// Create records an expense in pending state.
func (s *ExpenseService) Create(ctx context.Context, req CreateRequest) (*domain.Expense, error) {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return nil, ledger.NewValidationError("title", "title is required")
	case strings.TrimSpace(req.Category) == "":
		return nil, ledger.NewValidationError("category", "expense category is required")
	case !req.Amount.IsPositive():
		return nil, ledger.NewValidationError("amount", "amount must be positive")
	}

	e := &domain.Expense{
		VoucherNo:   voucherNo(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Amount:      req.Amount,
		Status:      domain.StatusPending,
		CreatedBy:   req.CreatedBy,
	}
	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("voucher_no", e.VoucherNo),
		zap.String("amount", e.Amount.String()),
	)
	return e, nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.expenses.FindByID(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, f domain.ListFilter) ([]domain.Expense, error) {
	return s.expenses.List(ctx, f)
}

// Allocate pays a pending expense out of a fund: the fund for the given
// category must already exist, its sub-balance must cover the amount,
// and on success the expense is stamped paid with the allocation
// details.
func (s *ExpenseService) Allocate(ctx context.Context, id int64, fundCategory ledger.FundCategory, method ledger.PaymentMethod, performedBy string) (*domain.Expense, *ledger.LedgerTransaction, error) {
	e, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e.Status == domain.StatusPaid {
		return nil, nil, ledger.NewValidationError("status", fmt.Sprintf("expense %s already paid", e.VoucherNo))
	}
	if !method.IsValid() {
		return nil, nil, ledger.NewValidationError("method", fmt.Sprintf("unknown payment method %q", method))
	}

	fund, err := s.ledger.GetFundByCategory(ctx, fundCategory)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.ledger.Debit(ctx, fund.ID, ledgersvc.MutationRequest{
		Method:      method,
		Amount:      e.Amount,
		Source:      ledger.SourceExpense,
		Ref:         ledger.SourceRef{Kind: ledger.RefExpense, ID: strconv.FormatInt(e.ID, 10)},
		PerformedBy: performedBy,
		Description: fmt.Sprintf("Expense %s: %s", e.VoucherNo, e.Title),
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	e.Status = domain.StatusPaid
	e.FundID = &fund.ID
	e.FundCategory = fund.Category
	e.Method = method
	e.PaidBy = performedBy
	e.PaidAt = &now
	if err := s.expenses.Update(ctx, e); err != nil {
		s.logger.Error("expense debited but status update failed",
			zap.String("voucher_no", e.VoucherNo), zap.Error(err))
		return nil, nil, err
	}

	s.logger.Info("expense paid from fund",
		zap.String("voucher_no", e.VoucherNo),
		zap.String("fund_code", fund.Code),
		zap.String("amount", e.Amount.String()),
	)
	return e, entry, nil
}

// voucherNo builds an expense voucher number, e.g. VCH-2B9C01AA.
func voucherNo() string {
	return "VCH-" + strings.ToUpper(uuid.NewString()[:8])
}
