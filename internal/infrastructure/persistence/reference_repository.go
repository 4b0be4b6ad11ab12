package persistence

import (
	"context"
	"fmt"

	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// referenceModels maps every kind that other rows point at to its model.
// ElectroShop and ElectroEmployee are associations and are never referenced.
var referenceModels = map[store.EntityKind]any{
	store.KindShop:         &store.Shop{},
	store.KindElectroType:  &store.ElectroType{},
	store.KindPositionType: &store.PositionType{},
	store.KindPurchaseType: &store.PurchaseType{},
	store.KindElectroItem:  &store.ElectroItem{},
	store.KindEmployee:     &store.Employee{},
	store.KindPurchase:     &store.Purchase{},
}

// GormReferenceRepository implements store.ReferenceRepository using GORM
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// Exists reports whether an entity of the kind with the id is stored
func (r *GormReferenceRepository) Exists(ctx context.Context, kind store.EntityKind, id int64) (bool, error) {
	model, ok := referenceModels[kind]
	if !ok {
		return false, fmt.Errorf("%s cannot be referenced by id", kind)
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ store.ReferenceRepository = (*GormReferenceRepository)(nil)
