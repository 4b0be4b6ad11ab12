package persistence

import (
	"context"

	purchaseapp "github.com/Apolones/estore/internal/application/purchase"
	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// GormTransactionScope implements purchaseapp.TransactionScope using GORM transactions.
// The stock decrement and the purchase insert commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos purchaseapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Stock returns the stock repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Stock() store.StockRepository {
	return NewGormStockRepository(r.tx)
}

// Purchases returns the purchase repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Purchases() store.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

var _ purchaseapp.TransactionScope = (*GormTransactionScope)(nil)
var _ purchaseapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
