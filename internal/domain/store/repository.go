package store

import "context"

// ReferenceRepository resolves entity ids of any referencable kind.
type ReferenceRepository interface {
	// Exists reports whether an entity of the kind with the id is stored
	Exists(ctx context.Context, kind EntityKind, id int64) (bool, error)
}

// BatchWriter persists freshly loaded records of one kind.
type BatchWriter interface {
	// InsertBatch inserts records, a pointer to a slice of the entity type of kind.
	InsertBatch(ctx context.Context, kind EntityKind, records any) error
}

// StockRepository owns the per (shop, item) stock counters.
type StockRepository interface {
	// DecrementIfAvailable removes one unit when count > 0 as a single atomic step.
	// It returns false without changing anything when the count is zero, and
	// a *StockRecordNotFoundError when there is no record for the pair.
	DecrementIfAvailable(ctx context.Context, shopID, itemID int64) (bool, error)

	// FindByKey loads a stock record; shared.ErrNotFound when absent
	FindByKey(ctx context.Context, shopID, itemID int64) (*ElectroShop, error)

	// IsAvailable reports count > 0. The answer may be stale.
	IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error)
}

// PurchaseRepository stores purchase records
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	FindByID(ctx context.Context, id int64) (*Purchase, error)
}
