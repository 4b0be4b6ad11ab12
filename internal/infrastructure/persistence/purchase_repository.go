package persistence

import (
	"context"
	"errors"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements store.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create inserts a purchase; the database assigns the id
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *store.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// FindByID finds a purchase by id
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id int64) (*store.Purchase, error) {
	var purchase store.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

var _ store.PurchaseRepository = (*GormPurchaseRepository)(nil)
