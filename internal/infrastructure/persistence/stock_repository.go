package persistence

import (
	"context"
	"errors"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// GormStockRepository implements store.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// DecrementIfAvailable removes one unit with a single conditional UPDATE.
// The count > 0 guard runs inside the statement, so concurrent callers on the
// same key can never take the count below zero.
func (r *GormStockRepository) DecrementIfAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&store.ElectroShop{}).
		Where("shop_id = ? AND electro_item_id = ? AND count > 0", shopID, itemID).
		UpdateColumn("count", gorm.Expr("count - ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Nothing updated: either sold out or there is no record at all
	var exists int64
	if err := r.db.WithContext(ctx).
		Model(&store.ElectroShop{}).
		Where("shop_id = ? AND electro_item_id = ?", shopID, itemID).
		Count(&exists).Error; err != nil {
		return false, err
	}
	if exists == 0 {
		return false, &store.StockRecordNotFoundError{ShopID: shopID, ItemID: itemID}
	}
	return false, nil
}

// FindByKey loads one stock record
func (r *GormStockRepository) FindByKey(ctx context.Context, shopID, itemID int64) (*store.ElectroShop, error) {
	var stock store.ElectroShop
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND electro_item_id = ?", shopID, itemID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// IsAvailable reports count > 0; a missing record is not available
func (r *GormStockRepository) IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.ElectroShop{}).
		Where("shop_id = ? AND electro_item_id = ? AND count > 0", shopID, itemID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ store.StockRepository = (*GormStockRepository)(nil)
