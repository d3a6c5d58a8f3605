package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// Read-only fakes: the report service only lists funds and counts
// transactions, so the write half of the ports is left unimplemented.
type fakeFundRepo struct {
	funds []domain.Fund
}

func (r *fakeFundRepo) FindByID(context.Context, int64) (*domain.Fund, error) {
	return nil, domain.ErrFundNotFound
}

func (r *fakeFundRepo) FindActiveByCategory(context.Context, domain.FundCategory) (*domain.Fund, error) {
	return nil, domain.ErrFundNotFound
}

func (r *fakeFundRepo) List(_ context.Context, includeInactive bool) ([]domain.Fund, error) {
	var out []domain.Fund
	for _, f := range r.funds {
		if f.IsActive || includeInactive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFundRepo) Create(context.Context, *gorm.DB, *domain.Fund) error { return nil }

func (r *fakeFundRepo) CountCreatedOn(context.Context, *gorm.DB, time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeFundRepo) UpdateBalance(context.Context, *gorm.DB, int64, domain.Balance, int64) error {
	return nil
}

func (r *fakeFundRepo) Reload(context.Context, *gorm.DB, int64) (*domain.Fund, error) {
	return nil, domain.ErrFundNotFound
}

type fakeTxRepo struct {
	counts map[int64]int64
}

func (r *fakeTxRepo) Append(context.Context, *gorm.DB, *domain.LedgerTransaction) error { return nil }

func (r *fakeTxRepo) ExistsBySource(context.Context, domain.SourceKind, string) (bool, error) {
	return false, nil
}

func (r *fakeTxRepo) ListByFund(context.Context, int64, int, int) ([]domain.LedgerTransaction, error) {
	return nil, nil
}

func (r *fakeTxRepo) CountByFund(_ context.Context, fundID int64) (int64, error) {
	return r.counts[fundID], nil
}

func fund(id int64, category domain.FundCategory, cash, upi int64, active bool) domain.Fund {
	return domain.Fund{
		ID:           id,
		Code:         "FUND-TEST",
		Category:     category,
		BalanceCash:  decimal.NewFromInt(cash),
		BalanceUPI:   decimal.NewFromInt(upi),
		BalanceTotal: decimal.NewFromInt(cash + upi),
		IsActive:     active,
	}
}

func TestFundSummaryTotals(t *testing.T) {
	funds := &fakeFundRepo{funds: []domain.Fund{
		fund(1, domain.CategoryGeneral, 3000, 1200, true),
		fund(2, domain.CategoryFestival, 500, 0, true),
		fund(3, domain.CategoryMaintenance, 100, 100, false),
	}}
	txs := &fakeTxRepo{counts: map[int64]int64{1: 7, 2: 2, 3: 4}}
	svc := NewReportService(funds, txs)

	summary, err := svc.FundSummary(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, summary.Categories, 2, "inactive funds are excluded by default")
	assert.True(t, summary.TotalCash.Equal(decimal.NewFromInt(3500)))
	assert.True(t, summary.TotalUPI.Equal(decimal.NewFromInt(1200)))
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(4700)))

	byCategory := make(map[domain.FundCategory]CategorySummary)
	for _, cs := range summary.Categories {
		byCategory[cs.Category] = cs
	}
	general := byCategory[domain.CategoryGeneral]
	assert.EqualValues(t, 7, general.TxCount)
	assert.True(t, general.Balance.Consistent())
}

func TestFundSummaryIncludesInactiveOnRequest(t *testing.T) {
	funds := &fakeFundRepo{funds: []domain.Fund{
		fund(1, domain.CategoryGeneral, 1000, 0, true),
		fund(2, domain.CategoryEmergency, 250, 0, false),
	}}
	txs := &fakeTxRepo{counts: map[int64]int64{}}
	svc := NewReportService(funds, txs)

	summary, err := svc.FundSummary(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, summary.Categories, 2)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(1250)))
}

func TestFundSummaryEmpty(t *testing.T) {
	svc := NewReportService(&fakeFundRepo{}, &fakeTxRepo{counts: map[int64]int64{}})

	summary, err := svc.FundSummary(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, summary.Categories)
	assert.True(t, summary.Total.IsZero())
}
