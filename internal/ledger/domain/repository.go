package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// FundRepository is the port the ledger service mutates funds through.
// Methods taking a *gorm.DB run inside the caller's storage transaction.
type FundRepository interface {
	// FindByID loads a fund regardless of active flag.
	FindByID(ctx context.Context, id int64) (*Fund, error)

	// FindActiveByCategory resolves the unique active fund for a category.
	// Returns ErrFundNotFound when none exists.
	FindActiveByCategory(ctx context.Context, category FundCategory) (*Fund, error)

	// List returns funds, optionally including soft-deleted ones.
	List(ctx context.Context, includeInactive bool) ([]Fund, error)

	// Create inserts a new fund inside db.
	Create(ctx context.Context, db *gorm.DB, f *Fund) error

	// CountCreatedOn counts funds created on the given calendar day.
	// Used to assign the date-stamped code sequence.
	CountCreatedOn(ctx context.Context, db *gorm.DB, day time.Time) (int64, error)

	// UpdateBalance writes the new balance with a compare-and-swap on
	// version. Returns ErrVersionConflict when the version no longer
	// matches.
	UpdateBalance(ctx context.Context, db *gorm.DB, id int64, b Balance, version int64) error

	// Reload re-reads a fund through db, so a caller inside a storage
	// transaction observes its own writes.
	Reload(ctx context.Context, db *gorm.DB, id int64) (*Fund, error)
}

// TransactionRepository is the port for the append-only ledger history.
type TransactionRepository interface {
	// Append inserts one ledger entry inside db. There is deliberately
	// no update or delete.
	Append(ctx context.Context, db *gorm.DB, t *LedgerTransaction) error

	// ExistsBySource reports whether a ledger entry already references
	// the given source record. Idempotency check for donation and
	// expense postings.
	ExistsBySource(ctx context.Context, kind SourceKind, sourceID string) (bool, error)

	// ListByFund returns history in insertion order.
	ListByFund(ctx context.Context, fundID int64, limit, offset int) ([]LedgerTransaction, error)

	// CountByFund returns the history length for a fund.
	CountByFund(ctx context.Context, fundID int64) (int64, error)
}
