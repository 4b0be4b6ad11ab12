package purchaseapp

import (
	"context"
	"time"

	"github.com/Apolones/estore/internal/domain/store"
	"github.com/stretchr/testify/mock"
)

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) DecrementIfAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	args := m.Called(ctx, shopID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockRepository) FindByKey(ctx context.Context, shopID, itemID int64) (*store.ElectroShop, error) {
	args := m.Called(ctx, shopID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ElectroShop), args.Error(1)
}

func (m *MockStockRepository) IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	args := m.Called(ctx, shopID, itemID)
	return args.Bool(0), args.Error(1)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *store.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id int64) (*store.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Purchase), args.Error(1)
}

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) Exists(ctx context.Context, kind store.EntityKind, id int64) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

type MockPurchaseMetrics struct {
	mock.Mock
}

func (m *MockPurchaseMetrics) RecordPurchase(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}
