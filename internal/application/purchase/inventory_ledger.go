package purchaseapp

import (
	"context"

	"github.com/Apolones/estore/internal/domain/store"
)

// InventoryLedger gates purchases on the per (shop, item) stock counters.
type InventoryLedger struct {
	stock store.StockRepository
}

// NewInventoryLedger creates a ledger over stock
func NewInventoryLedger(stock store.StockRepository) *InventoryLedger {
	return &InventoryLedger{stock: stock}
}

// CheckAndDecrement takes one unit of the item from the shop.
//
// It returns true after removing a unit, false without any change when the
// count is zero, and *store.StockRecordNotFoundError when the pair has no
// stock record. Concurrent calls on one key are serialized by the store.
func (l *InventoryLedger) CheckAndDecrement(ctx context.Context, shopID, itemID int64) (bool, error) {
	return l.stock.DecrementIfAvailable(ctx, shopID, itemID)
}

// IsAvailable reports whether the shop has the item. Advisory only.
func (l *InventoryLedger) IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	return l.stock.IsAvailable(ctx, shopID, itemID)
}

// Stock returns the stock record; shared.ErrNotFound when absent
func (l *InventoryLedger) Stock(ctx context.Context, shopID, itemID int64) (*store.ElectroShop, error) {
	return l.stock.FindByKey(ctx, shopID, itemID)
}
