package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hk2807/sevaledger/backend/internal/expense/domain"
	ledger "github.com/hk2807/sevaledger/backend/internal/ledger/domain"
	ledgersvc "github.com/hk2807/sevaledger/backend/internal/ledger/service"
)

// stubLedger holds funds by category and applies debits against a cash
// sub-balance, returning InsufficientFundsError the way the fund
// service would.
type stubLedger struct {
	funds    map[ledger.FundCategory]*ledger.Fund
	debits   []ledgersvc.MutationRequest
	nextTxID int64
}

func newStubLedger() *stubLedger {
	return &stubLedger{funds: make(map[ledger.FundCategory]*ledger.Fund)}
}

func (s *stubLedger) addFund(category ledger.FundCategory, cash int64) *ledger.Fund {
	f := &ledger.Fund{
		ID:           int64(len(s.funds) + 1),
		Code:         "FUND-TEST",
		Category:     category,
		BalanceCash:  decimal.NewFromInt(cash),
		BalanceTotal: decimal.NewFromInt(cash),
		Version:      1,
		IsActive:     true,
	}
	s.funds[category] = f
	return f
}

func (s *stubLedger) GetFundByCategory(_ context.Context, category ledger.FundCategory) (*ledger.Fund, error) {
	f, ok := s.funds[category]
	if !ok {
		return nil, ledger.ErrFundNotFound
	}
	return f, nil
}

func (s *stubLedger) Debit(_ context.Context, fundID int64, req ledgersvc.MutationRequest) (*ledger.LedgerTransaction, error) {
	var fund *ledger.Fund
	for _, f := range s.funds {
		if f.ID == fundID {
			fund = f
		}
	}
	if fund == nil {
		return nil, ledger.ErrFundNotFound
	}
	if fund.BalanceCash.LessThan(req.Amount) {
		return nil, &ledger.InsufficientFundsError{
			Category:  fund.Category,
			Method:    req.Method,
			Available: fund.BalanceCash,
			Required:  req.Amount,
		}
	}
	fund.BalanceCash = fund.BalanceCash.Sub(req.Amount)
	fund.BalanceTotal = fund.BalanceCash
	s.debits = append(s.debits, req)
	s.nextTxID++
	return &ledger.LedgerTransaction{
		ID:          s.nextTxID,
		FundID:      fundID,
		Type:        ledger.TxDebit,
		Source:      req.Source,
		SourceType:  req.Ref.Kind,
		SourceID:    req.Ref.ID,
		Method:      req.Method,
		Amount:      req.Amount,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
	}, nil
}

type fakeExpenseRepo struct {
	expenses map[int64]*domain.Expense
	nextID   int64
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[int64]*domain.Expense)}
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *domain.Expense) error {
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id int64) (*domain.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeExpenseRepo) List(_ context.Context, f domain.ListFilter) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, e := range r.expenses {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, e *domain.Expense) error {
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func newTestService(t *testing.T) (*ExpenseService, *fakeExpenseRepo, *stubLedger) {
	t.Helper()
	repo := newFakeExpenseRepo()
	stub := newStubLedger()
	return NewExpenseService(repo, stub, zap.NewNop()), repo, stub
}

func TestCreateExpense(t *testing.T) {
	svc, _, _ := newTestService(t)

	e, err := svc.Create(context.Background(), CreateRequest{
		Title:    "Monthly electricity bill",
		Category: "electricity",
		Amount:   decimal.NewFromInt(4200),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, e.Status)
	assert.True(t, strings.HasPrefix(e.VoucherNo, "VCH-"))
	assert.Nil(t, e.PaidAt)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing title", CreateRequest{Category: "repairs", Amount: decimal.NewFromInt(10)}},
		{"missing category", CreateRequest{Title: "x", Amount: decimal.NewFromInt(10)}},
		{"zero amount", CreateRequest{Title: "x", Category: "repairs"}},
		{"negative amount", CreateRequest{Title: "x", Category: "repairs", Amount: decimal.NewFromInt(-10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validation *ledger.ValidationError
			_, err := svc.Create(ctx, tt.req)
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestAllocateDebitsFundAndStampsExpense(t *testing.T) {
	svc, repo, stub := newTestService(t)
	ctx := context.Background()

	fund := stub.addFund(ledger.CategoryMaintenance, 10000)
	e, err := svc.Create(ctx, CreateRequest{
		Title:    "Gopuram repair",
		Category: "repairs",
		Amount:   decimal.NewFromInt(2000),
	})
	require.NoError(t, err)

	paid, entry, err := svc.Allocate(ctx, e.ID, ledger.CategoryMaintenance, ledger.MethodCash, "admin-001")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, paid.Status)
	require.NotNil(t, paid.FundID)
	assert.Equal(t, fund.ID, *paid.FundID)
	assert.Equal(t, ledger.CategoryMaintenance, paid.FundCategory)
	assert.Equal(t, ledger.MethodCash, paid.Method)
	assert.Equal(t, "admin-001", paid.PaidBy)
	require.NotNil(t, paid.PaidAt)

	assert.Equal(t, ledger.TxDebit, entry.Type)
	assert.Equal(t, ledger.SourceExpense, entry.Source)
	assert.Contains(t, entry.Description, paid.VoucherNo)

	assert.True(t, fund.BalanceCash.Equal(decimal.NewFromInt(8000)))

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.Status)
}

func TestAllocateRejectsAlreadyPaid(t *testing.T) {
	svc, _, stub := newTestService(t)
	ctx := context.Background()

	stub.addFund(ledger.CategoryGeneral, 5000)
	e, err := svc.Create(ctx, CreateRequest{
		Title:    "Flowers",
		Category: "pooja",
		Amount:   decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	_, _, err = svc.Allocate(ctx, e.ID, ledger.CategoryGeneral, ledger.MethodCash, "admin-001")
	require.NoError(t, err)

	var validation *ledger.ValidationError
	_, _, err = svc.Allocate(ctx, e.ID, ledger.CategoryGeneral, ledger.MethodCash, "admin-001")
	require.ErrorAs(t, err, &validation)
	assert.Len(t, stub.debits, 1, "an expense must never debit twice")
}

func TestAllocateAgainstMissingFundFails(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateRequest{
		Title:    "Flowers",
		Category: "pooja",
		Amount:   decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	// Unlike donation processing, allocation must not create the fund.
	_, _, err = svc.Allocate(ctx, e.ID, ledger.CategoryEmergency, ledger.MethodCash, "admin-001")
	require.ErrorIs(t, err, ledger.ErrFundNotFound)

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestAllocateInsufficientFundsLeavesExpensePending(t *testing.T) {
	svc, repo, stub := newTestService(t)
	ctx := context.Background()

	stub.addFund(ledger.CategoryGeneral, 100)
	e, err := svc.Create(ctx, CreateRequest{
		Title:    "Generator fuel",
		Category: "fuel",
		Amount:   decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	var insufficient *ledger.InsufficientFundsError
	_, _, err = svc.Allocate(ctx, e.ID, ledger.CategoryGeneral, ledger.MethodCash, "admin-001")
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(100)))
	assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(2500)))

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.PaidAt)
}

func TestAllocateUnknownExpense(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Allocate(context.Background(), 404, ledger.CategoryGeneral, ledger.MethodCash, "admin-001")
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}
