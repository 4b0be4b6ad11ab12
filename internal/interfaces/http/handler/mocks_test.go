package handler

import (
	"context"

	importapp "github.com/Apolones/estore/internal/application/import"
	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) ImportArchive(ctx context.Context, fileName string, data []byte, encoding string) (*importapp.ImportResult, error) {
	args := m.Called(ctx, fileName, data, encoding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importapp.ImportResult), args.Error(1)
}

func (m *MockImporter) ImportCSV(ctx context.Context, kind store.EntityKind, fileName string, data []byte, encoding string) (*importapp.ImportResult, error) {
	args := m.Called(ctx, kind, fileName, data, encoding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importapp.ImportResult), args.Error(1)
}

type MockImportHistoryReader struct {
	mock.Mock
}

func (m *MockImportHistoryReader) GetByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryReader) List(ctx context.Context, filter bulk.ImportHistoryFilter) (*bulk.ImportHistoryListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistoryListResult), args.Error(1)
}

type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) CreatePurchase(ctx context.Context, req store.PurchaseRequest, idempotencyKey string) (*store.Purchase, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Purchase), args.Error(1)
}

func (m *MockPurchaseService) GetPurchase(ctx context.Context, id int64) (*store.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Purchase), args.Error(1)
}

type MockStockReader struct {
	mock.Mock
}

func (m *MockStockReader) IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error) {
	args := m.Called(ctx, shopID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockReader) Stock(ctx context.Context, shopID, itemID int64) (*store.ElectroShop, error) {
	args := m.Called(ctx, shopID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ElectroShop), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(context.Context) error { return p.err }
