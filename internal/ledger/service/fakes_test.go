package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

// fakeStore backs the repository fakes with plain maps so the service
// can be exercised without postgres. fakeDB snapshots and restores it to
// mimic storage-transaction rollback.
type fakeStore struct {
	funds      map[int64]*domain.Fund
	txs        []domain.LedgerTransaction
	nextFundID int64
	nextTxID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{funds: make(map[int64]*domain.Fund)}
}

type storeSnapshot struct {
	funds      map[int64]*domain.Fund
	txs        []domain.LedgerTransaction
	nextFundID int64
	nextTxID   int64
}

func (s *fakeStore) snapshot() storeSnapshot {
	funds := make(map[int64]*domain.Fund, len(s.funds))
	for id, f := range s.funds {
		cp := *f
		funds[id] = &cp
	}
	txs := make([]domain.LedgerTransaction, len(s.txs))
	copy(txs, s.txs)
	return storeSnapshot{funds: funds, txs: txs, nextFundID: s.nextFundID, nextTxID: s.nextTxID}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.funds = snap.funds
	s.txs = snap.txs
	s.nextFundID = snap.nextFundID
	s.nextTxID = snap.nextTxID
}

// fakeDB satisfies TxRunner. Errors roll the store back to the state at
// the start of the transaction, like a real storage rollback would.
type fakeDB struct {
	store *fakeStore
}

func (f *fakeDB) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	snap := f.store.snapshot()
	if err := fc(nil); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

type fakeFundRepo struct {
	store *fakeStore

	// forceConflicts makes the next N UpdateBalance calls fail with
	// ErrVersionConflict without applying, to drive the retry path.
	forceConflicts int

	// skewNextUpdate makes the next UpdateBalance persist a cash figure
	// one rupee off the requested balance, to drive the snapshot
	// verification path.
	skewNextUpdate bool
}

func (r *fakeFundRepo) FindByID(_ context.Context, id int64) (*domain.Fund, error) {
	f, ok := r.store.funds[id]
	if !ok {
		return nil, domain.ErrFundNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFundRepo) FindActiveByCategory(_ context.Context, category domain.FundCategory) (*domain.Fund, error) {
	for _, f := range r.store.funds {
		if f.Category == category && f.IsActive {
			cp := *f
			return &cp, nil
		}
	}
	return nil, domain.ErrFundNotFound
}

func (r *fakeFundRepo) List(_ context.Context, includeInactive bool) ([]domain.Fund, error) {
	var out []domain.Fund
	for _, f := range r.store.funds {
		if f.IsActive || includeInactive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFundRepo) Create(_ context.Context, _ *gorm.DB, f *domain.Fund) error {
	r.store.nextFundID++
	f.ID = r.store.nextFundID
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	cp := *f
	r.store.funds[f.ID] = &cp
	return nil
}

func (r *fakeFundRepo) CountCreatedOn(_ context.Context, _ *gorm.DB, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	for _, f := range r.store.funds {
		if !f.CreatedAt.Before(start) && f.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeFundRepo) UpdateBalance(_ context.Context, _ *gorm.DB, id int64, b domain.Balance, version int64) error {
	if r.forceConflicts > 0 {
		r.forceConflicts--
		return domain.ErrVersionConflict
	}
	f, ok := r.store.funds[id]
	if !ok {
		return domain.ErrFundNotFound
	}
	if f.Version != version {
		return domain.ErrVersionConflict
	}
	if r.skewNextUpdate {
		r.skewNextUpdate = false
		b.Cash = b.Cash.Add(decimal.NewFromInt(1))
	}
	f.BalanceCash = b.Cash
	f.BalanceUPI = b.UPI
	f.BalanceTotal = b.Total
	f.Version++
	f.UpdatedAt = time.Now()
	return nil
}

func (r *fakeFundRepo) Reload(ctx context.Context, _ *gorm.DB, id int64) (*domain.Fund, error) {
	return r.FindByID(ctx, id)
}

type fakeTxRepo struct {
	store *fakeStore

	// failAppendOnCall fails the Nth Append (1-based) with appendErr,
	// to drive the transfer rollback path.
	failAppendOnCall int
	appendErr        error
	appendCalls      int
}

func (r *fakeTxRepo) Append(_ context.Context, _ *gorm.DB, t *domain.LedgerTransaction) error {
	r.appendCalls++
	if r.failAppendOnCall > 0 && r.appendCalls == r.failAppendOnCall {
		return r.appendErr
	}
	r.store.nextTxID++
	t.ID = r.store.nextTxID
	t.CreatedAt = time.Now()
	r.store.txs = append(r.store.txs, *t)
	return nil
}

func (r *fakeTxRepo) ExistsBySource(_ context.Context, kind domain.SourceKind, sourceID string) (bool, error) {
	for _, t := range r.store.txs {
		if t.SourceType == kind && t.SourceID == sourceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTxRepo) ListByFund(_ context.Context, fundID int64, limit, offset int) ([]domain.LedgerTransaction, error) {
	var out []domain.LedgerTransaction
	for _, t := range r.store.txs {
		if t.FundID == fundID {
			out = append(out, t)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxRepo) CountByFund(_ context.Context, fundID int64) (int64, error) {
	var count int64
	for _, t := range r.store.txs {
		if t.FundID == fundID {
			count++
		}
	}
	return count, nil
}
