package purchaseapp

import (
	"context"

	"github.com/Apolones/estore/internal/domain/store"
)

// TransactionScope provides transactional access to the purchase repositories.
// All repository operations inside Execute commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
type TransactionalRepositories interface {
	// Stock returns the stock repository scoped to the current transaction
	Stock() store.StockRepository
	// Purchases returns the purchase repository scoped to the current transaction
	Purchases() store.PurchaseRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
type NoOpTransactionScope struct {
	stock     store.StockRepository
	purchases store.PurchaseRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(stock store.StockRepository, purchases store.PurchaseRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{stock: stock, purchases: purchases}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Stock returns the stock repository.
func (s *NoOpTransactionScope) Stock() store.StockRepository {
	return s.stock
}

// Purchases returns the purchase repository.
func (s *NoOpTransactionScope) Purchases() store.PurchaseRepository {
	return s.purchases
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
