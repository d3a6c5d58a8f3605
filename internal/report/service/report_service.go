package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// CategorySummary is the per-fund slice of the funds report.
type CategorySummary struct {
	Category domain.FundCategory
	Code     string
	Balance  domain.Balance
	TxCount  int64
	IsActive bool
}

// Summary aggregates current balances across all funds. Read-only; the
// figures are whatever the ledger has already guaranteed.
type Summary struct {
	Categories []CategorySummary
	TotalCash  decimal.Decimal
	TotalUPI   decimal.Decimal
	Total      decimal.Decimal
}

type ReportService struct {
	funds domain.FundRepository
	txs   domain.TransactionRepository
}

func NewReportService(funds domain.FundRepository, txs domain.TransactionRepository) *ReportService {
	return &ReportService{funds: funds, txs: txs}
}

// FundSummary scans funds and tallies balances and history lengths.
func (s *ReportService) FundSummary(ctx context.Context, includeInactive bool) (*Summary, error) {
	funds, err := s.funds.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	out := &Summary{Categories: make([]CategorySummary, 0, len(funds))}
	for i := range funds {
		f := &funds[i]
		count, err := s.txs.CountByFund(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		out.Categories = append(out.Categories, CategorySummary{
			Category: f.Category,
			Code:     f.Code,
			Balance:  f.Balance(),
			TxCount:  count,
			IsActive: f.IsActive,
		})
		out.TotalCash = out.TotalCash.Add(f.BalanceCash)
		out.TotalUPI = out.TotalUPI.Add(f.BalanceUPI)
		out.Total = out.Total.Add(f.BalanceTotal)
	}
	return out, nil
}
