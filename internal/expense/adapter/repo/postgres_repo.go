package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/expense/domain"
)

type PostgresExpenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) *PostgresExpenseRepo {
	return &PostgresExpenseRepo{db: db}
}

func (r *PostgresExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *PostgresExpenseRepo) FindByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var e domain.Expense
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PostgresExpenseRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Expense, error) {
	q := r.db.WithContext(ctx).Order("id DESC").Offset(f.Offset)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var es []domain.Expense
	if err := q.Find(&es).Error; err != nil {
		return nil, err
	}
	return es, nil
}

func (r *PostgresExpenseRepo) Update(ctx context.Context, e *domain.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}
