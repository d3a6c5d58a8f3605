package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// balanceRetries bounds the optimistic-lock retry loop. Each retry
// re-reads the fund and re-runs validation against the fresh balance.
const balanceRetries = 3

// TxRunner abstracts gorm's transaction entry point so the service can be
// exercised without a database. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// MutationRequest carries everything a credit or debit needs beyond the
// target fund and direction.
type MutationRequest struct {
	Method      domain.PaymentMethod
	Amount      decimal.Decimal
	Source      domain.TxSource
	Ref         domain.SourceRef
	PerformedBy string
	Description string
}

// TransferResult returns both legs of a completed transfer.
type TransferResult struct {
	From     *domain.Fund
	To       *domain.Fund
	DebitTx  *domain.LedgerTransaction
	CreditTx *domain.LedgerTransaction
}

// FundService owns every balance mutation in the system. Callers never
// touch Fund.Balance* or the transaction table directly.
type FundService struct {
	db     TxRunner
	funds  domain.FundRepository
	txs    domain.TransactionRepository
	logger *zap.Logger
}

func NewFundService(db TxRunner, funds domain.FundRepository, txs domain.TransactionRepository, logger *zap.Logger) *FundService {
	return &FundService{
		db:     db,
		funds:  funds,
		txs:    txs,
		logger: logger,
	}
}

// Credit increases the fund's sub-balance for req.Method and appends the
// justifying ledger entry, as one storage transaction.
func (s *FundService) Credit(ctx context.Context, fundID int64, req MutationRequest) (*domain.LedgerTransaction, error) {
	if err := validateMutation(req); err != nil {
		return nil, err
	}
	if err := s.guardDuplicateSource(ctx, req); err != nil {
		return nil, err
	}
	return s.applyWithRetry(ctx, fundID, domain.TxCredit, req)
}

// Debit decreases the fund's sub-balance for req.Method. Fails with
// InsufficientFundsError, leaving the fund untouched, when the
// sub-balance cannot cover the amount.
func (s *FundService) Debit(ctx context.Context, fundID int64, req MutationRequest) (*domain.LedgerTransaction, error) {
	if err := validateMutation(req); err != nil {
		return nil, err
	}
	if err := s.guardDuplicateSource(ctx, req); err != nil {
		return nil, err
	}
	return s.applyWithRetry(ctx, fundID, domain.TxDebit, req)
}

// FindOrCreateFund resolves the active fund for a category, creating one
// with zero balances when the category has never been used. The
// description only applies on creation; an existing fund keeps its own.
func (s *FundService) FindOrCreateFund(ctx context.Context, category domain.FundCategory, performedBy, description string) (*domain.Fund, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", fmt.Sprintf("unknown fund category %q", category))
	}

	fund, err := s.funds.FindActiveByCategory(ctx, category)
	if err == nil {
		return fund, nil
	}
	if !errors.Is(err, domain.ErrFundNotFound) {
		return nil, err
	}

	if description == "" {
		description = fmt.Sprintf("%s fund", category)
	}
	now := time.Now()
	fund = &domain.Fund{
		Category:    category,
		Description: description,
		Version:     1,
		IsActive:    true,
		CreatedBy:   performedBy,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		seq, err := s.funds.CountCreatedOn(ctx, tx, now)
		if err != nil {
			return err
		}
		fund.Code = fundCode(now, seq+1)
		return s.funds.Create(ctx, tx, fund)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fund created",
		zap.String("code", fund.Code),
		zap.String("category", string(category)),
		zap.String("created_by", performedBy),
	)
	return fund, nil
}

// Transfer moves money between two categories. Both legs run inside one
// storage transaction, so a failure on either leg leaves no partial
// transfer behind.
func (s *FundService) Transfer(ctx context.Context, from, to domain.FundCategory, method domain.PaymentMethod, amount decimal.Decimal, performedBy, description string) (*TransferResult, error) {
	switch {
	case !from.IsValid():
		return nil, domain.NewValidationError("from_category", fmt.Sprintf("unknown fund category %q", from))
	case !to.IsValid():
		return nil, domain.NewValidationError("to_category", fmt.Sprintf("unknown fund category %q", to))
	case from == to:
		return nil, domain.NewValidationError("to_category", "source and destination categories must differ")
	case !method.IsValid():
		return nil, domain.NewValidationError("method", fmt.Sprintf("unknown payment method %q", method))
	case !amount.IsPositive():
		return nil, domain.NewValidationError("amount", "amount must be positive")
	case !paiseScale(amount):
		return nil, domain.NewValidationError("amount", "amount must have at most two decimal places")
	}

	var lastErr error
	for attempt := 0; attempt < balanceRetries; attempt++ {
		src, err := s.funds.FindActiveByCategory(ctx, from)
		if err != nil {
			return nil, err
		}

		// Check sufficiency before touching the destination so a doomed
		// transfer cannot create the destination fund as a side effect.
		if src.Balance().Amount(method).LessThan(amount) {
			return nil, &domain.InsufficientFundsError{
				Category:  from,
				Method:    method,
				Available: src.Balance().Amount(method),
				Required:  amount,
			}
		}

		dst, err := s.FindOrCreateFund(ctx, to, performedBy, "")
		if err != nil {
			return nil, err
		}

		result := &TransferResult{From: src, To: dst}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			debitTx, err := s.mutate(ctx, tx, src, domain.TxDebit, MutationRequest{
				Method:      method,
				Amount:      amount,
				Source:      domain.SourceTransfer,
				Ref:         domain.SourceRef{Kind: domain.RefFund, ID: strconv.FormatInt(dst.ID, 10)},
				PerformedBy: performedBy,
				Description: transferDescription(description, from, to),
			})
			if err != nil {
				return err
			}
			creditTx, err := s.mutate(ctx, tx, dst, domain.TxCredit, MutationRequest{
				Method:      method,
				Amount:      amount,
				Source:      domain.SourceTransfer,
				Ref:         domain.SourceRef{Kind: domain.RefFund, ID: strconv.FormatInt(src.ID, 10)},
				PerformedBy: performedBy,
				Description: transferDescription(description, from, to),
			})
			if err != nil {
				return err
			}
			result.DebitTx = debitTx
			result.CreditTx = creditTx
			return nil
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("transfer %s -> %s: %w", from, to, lastErr)
}

// GetFund loads one fund by id.
func (s *FundService) GetFund(ctx context.Context, id int64) (*domain.Fund, error) {
	return s.funds.FindByID(ctx, id)
}

// GetFundByCategory resolves the active fund for a category without
// creating one.
func (s *FundService) GetFundByCategory(ctx context.Context, category domain.FundCategory) (*domain.Fund, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", fmt.Sprintf("unknown fund category %q", category))
	}
	return s.funds.FindActiveByCategory(ctx, category)
}

// ListFunds returns funds for display, active-only unless asked otherwise.
func (s *FundService) ListFunds(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	return s.funds.List(ctx, includeInactive)
}

// Transactions pages through a fund's ledger history in insertion order.
func (s *FundService) Transactions(ctx context.Context, fundID int64, limit, offset int) ([]domain.LedgerTransaction, error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return nil, err
	}
	return s.txs.ListByFund(ctx, fundID, limit, offset)
}

// TransactionCount returns the ledger history length for a fund.
func (s *FundService) TransactionCount(ctx context.Context, fundID int64) (int64, error) {
	return s.txs.CountByFund(ctx, fundID)
}

// guardDuplicateSource rejects a donation or expense that already has a
// ledger entry, so a caller that crashed between the committed write and
// its own status update cannot post the same record twice. Transfers are
// exempt: the same pair of funds may legitimately transfer repeatedly.
func (s *FundService) guardDuplicateSource(ctx context.Context, req MutationRequest) error {
	if req.Source != domain.SourceDonation && req.Source != domain.SourceExpense {
		return nil
	}
	if req.Ref.ID == "" {
		return nil
	}
	exists, err := s.txs.ExistsBySource(ctx, req.Ref.Kind, req.Ref.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewValidationError("source_id",
			fmt.Sprintf("%s %s is already posted to the ledger", req.Ref.Kind, req.Ref.ID))
	}
	return nil
}

// applyWithRetry runs one mutation, retrying on optimistic-lock conflict
// with a fresh read each attempt.
func (s *FundService) applyWithRetry(ctx context.Context, fundID int64, txType domain.TxType, req MutationRequest) (*domain.LedgerTransaction, error) {
	var lastErr error
	for attempt := 0; attempt < balanceRetries; attempt++ {
		fund, err := s.funds.FindByID(ctx, fundID)
		if err != nil {
			return nil, err
		}
		if !fund.IsActive {
			return nil, domain.ErrFundNotFound
		}

		var entry *domain.LedgerTransaction
		err = s.db.Transaction(func(tx *gorm.DB) error {
			entry, err = s.mutate(ctx, tx, fund, txType, req)
			return err
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			lastErr = err
			s.logger.Warn("balance update conflict, retrying",
				zap.Int64("fund_id", fundID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, err
		}
		return entry, nil
	}
	return nil, fmt.Errorf("%s fund %d: %w", txType, fundID, lastErr)
}

// mutate performs the check-then-mutate sequence against the storage
// handle tx: compute the next balance, CAS it in, append the ledger
// entry, then verify the persisted row matches the snapshot. Any error
// rolls back the enclosing storage transaction.
func (s *FundService) mutate(ctx context.Context, tx *gorm.DB, fund *domain.Fund, txType domain.TxType, req MutationRequest) (*domain.LedgerTransaction, error) {
	next := fund.Balance()
	switch txType {
	case domain.TxCredit:
		if req.Method == domain.MethodUPI {
			next.UPI = next.UPI.Add(req.Amount)
		} else {
			next.Cash = next.Cash.Add(req.Amount)
		}
	case domain.TxDebit:
		available := next.Amount(req.Method)
		if available.LessThan(req.Amount) {
			return nil, &domain.InsufficientFundsError{
				Category:  fund.Category,
				Method:    req.Method,
				Available: available,
				Required:  req.Amount,
			}
		}
		if req.Method == domain.MethodUPI {
			next.UPI = next.UPI.Sub(req.Amount)
		} else {
			next.Cash = next.Cash.Sub(req.Amount)
		}
	default:
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", txType))
	}
	next.Total = next.Cash.Add(next.UPI)

	if err := s.funds.UpdateBalance(ctx, tx, fund.ID, next, fund.Version); err != nil {
		return nil, err
	}

	entry := &domain.LedgerTransaction{
		FundID:      fund.ID,
		Type:        txType,
		Source:      req.Source,
		SourceType:  req.Ref.Kind,
		SourceID:    req.Ref.ID,
		Method:      req.Method,
		Amount:      req.Amount,
		AfterCash:   next.Cash,
		AfterUPI:    next.UPI,
		AfterTotal:  next.Total,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
		Date:        time.Now(),
	}
	if err := s.txs.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	// Re-read through the same storage transaction and confirm the
	// persisted balance equals the snapshot we just recorded.
	persisted, err := s.funds.Reload(ctx, tx, fund.ID)
	if err != nil {
		return nil, err
	}
	if !persisted.Balance().Equal(next) || !persisted.Balance().Consistent() {
		return nil, &domain.InvariantViolationError{
			FundID: fund.ID,
			Detail: fmt.Sprintf("persisted balance %s/%s/%s does not match snapshot %s/%s/%s",
				persisted.BalanceCash, persisted.BalanceUPI, persisted.BalanceTotal,
				next.Cash, next.UPI, next.Total),
		}
	}

	// The caller's in-memory fund tracks the committed state so a second
	// leg in the same storage transaction starts from the right version.
	fund.BalanceCash = next.Cash
	fund.BalanceUPI = next.UPI
	fund.BalanceTotal = next.Total
	fund.Version = persisted.Version

	return entry, nil
}

func validateMutation(req MutationRequest) error {
	switch {
	case !req.Method.IsValid():
		return domain.NewValidationError("method", fmt.Sprintf("unknown payment method %q", req.Method))
	case !req.Amount.IsPositive():
		return domain.NewValidationError("amount", "amount must be positive")
	case !paiseScale(req.Amount):
		return domain.NewValidationError("amount", "amount must have at most two decimal places")
	case !req.Source.IsValid():
		return domain.NewValidationError("source", fmt.Sprintf("unknown transaction source %q", req.Source))
	case req.PerformedBy == "":
		return domain.NewValidationError("performed_by", "acting user is required")
	}
	return nil
}

// paiseScale reports whether the amount fits the decimal(14,2) money
// columns without rounding. Anything finer would be silently rounded by
// the database and trip the post-write snapshot verification.
func paiseScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

// fundCode builds the date-stamped fund code, e.g. FUND-20260831-003.
func fundCode(t time.Time, seq int64) string {
	return fmt.Sprintf("FUND-%s-%03d", t.Format("20060102"), seq)
}

func transferDescription(description string, from, to domain.FundCategory) string {
	if description != "" {
		return description
	}
	return fmt.Sprintf("Transfer from %s fund to %s fund", from, to)
}
