package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/ledger/domain"
)

type PostgresFundRepo struct {
	db *gorm.DB
}

func NewFundRepo(db *gorm.DB) *PostgresFundRepo {
	return &PostgresFundRepo{db: db}
}

func (r *PostgresFundRepo) FindByID(ctx context.Context, id int64) (*domain.Fund, error) {
	var fund domain.Fund
	if err := r.db.WithContext(ctx).First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (r *PostgresFundRepo) FindActiveByCategory(ctx context.Context, category domain.FundCategory) (*domain.Fund, error) {
	var fund domain.Fund
	err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		First(&fund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

func (r *PostgresFundRepo) List(ctx context.Context, includeInactive bool) ([]domain.Fund, error) {
	q := r.db.WithContext(ctx).Order("category")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var funds []domain.Fund
	if err := q.Find(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (r *PostgresFundRepo) Create(ctx context.Context, db *gorm.DB, f *domain.Fund) error {
	return db.WithContext(ctx).Create(f).Error
}

func (r *PostgresFundRepo) CountCreatedOn(ctx context.Context, db *gorm.DB, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	err := db.WithContext(ctx).Model(&domain.Fund{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// UpdateBalance is the serialization point for concurrent mutations:
// UPDATE ... SET balance..., version = version + 1 WHERE id = ? AND version = ?
// Zero rows affected means another writer got there first.
func (r *PostgresFundRepo) UpdateBalance(ctx context.Context, db *gorm.DB, id int64, b domain.Balance, version int64) error {
	result := db.WithContext(ctx).Model(&domain.Fund{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"balance_cash":  b.Cash,
			"balance_upi":   b.UPI,
			"balance_total": b.Total,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *PostgresFundRepo) Reload(ctx context.Context, db *gorm.DB, id int64) (*domain.Fund, error) {
	var fund domain.Fund
	if err := db.WithContext(ctx).First(&fund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFundNotFound
		}
		return nil, err
	}
	return &fund, nil
}

// ---------------------------------------------------------

type PostgresTransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) *PostgresTransactionRepo {
	return &PostgresTransactionRepo{db: db}
}

func (r *PostgresTransactionRepo) Append(ctx context.Context, db *gorm.DB, t *domain.LedgerTransaction) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *PostgresTransactionRepo) ExistsBySource(ctx context.Context, kind domain.SourceKind, sourceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LedgerTransaction{}).
		Where("source_type = ? AND source_id = ?", kind, sourceID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresTransactionRepo) ListByFund(ctx context.Context, fundID int64, limit, offset int) ([]domain.LedgerTransaction, error) {
	q := r.db.WithContext(ctx).
		Where("fund_id = ?", fundID).
		Order("id").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txs []domain.LedgerTransaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *PostgresTransactionRepo) CountByFund(ctx context.Context, fundID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LedgerTransaction{}).
		Where("fund_id = ?", fundID).
		Count(&count).Error
	return count, err
}
