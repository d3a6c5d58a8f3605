package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hk2807/sevaledger/backend/internal/donation/domain"
)

type PostgresDonationRepo struct {
	db *gorm.DB
}

func NewDonationRepo(db *gorm.DB) *PostgresDonationRepo {
	return &PostgresDonationRepo{db: db}
}

func (r *PostgresDonationRepo) Create(ctx context.Context, d *domain.Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *PostgresDonationRepo) FindByID(ctx context.Context, id int64) (*domain.Donation, error) {
	var d domain.Donation
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDonationRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Donation, error) {
	q := r.db.WithContext(ctx).Order("id DESC").Offset(f.Offset)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("fund_category = ?", f.Category)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var ds []domain.Donation
	if err := q.Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *PostgresDonationRepo) Update(ctx context.Context, d *domain.Donation) error {
	return r.db.WithContext(ctx).Save(d).Error
}
