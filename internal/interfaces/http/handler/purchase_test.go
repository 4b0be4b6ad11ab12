package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/Apolones/estore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPurchaseRouter(purchases PurchaseService, stock StockReader) *gin.Engine {
	h := NewPurchaseHandler(purchases, stock)
	r := gin.New()
	r.POST("/purchase", h.CreatePurchase)
	r.GET("/purchase/:id", h.GetPurchase)
	r.GET("/electroshop", h.GetStock)
	r.GET("/electroshop/availability", h.GetAvailability)
	return r
}

func postPurchase(body, idempotencyKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/purchase", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}
	return req
}

const validPurchaseBody = `{"electroItemId":1,"employeeId":2,"shopId":3,"purchaseTypeId":4}`

func TestPurchaseHandler_CreatePurchase(t *testing.T) {
	wantReq := store.PurchaseRequest{ElectroItemID: 1, EmployeeID: 2, ShopID: 3, PurchaseTypeID: 4}

	t.Run("created", func(t *testing.T) {
		svc := new(MockPurchaseService)
		date := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		svc.On("CreatePurchase", mock.Anything, wantReq, "key-1").
			Return(&store.Purchase{ID: 42, ElectroItemID: 1, EmployeeID: 2, ShopID: 3, PurchaseTypeID: 4, PurchaseDate: date}, nil)

		w := httptest.NewRecorder()
		setupPurchaseRouter(svc, new(MockStockReader)).ServeHTTP(w, postPurchase(validPurchaseBody, "key-1"))

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(42), data["id"])
		assert.Equal(t, float64(3), data["shopId"])
		svc.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		svc := new(MockPurchaseService)
		w := httptest.NewRecorder()
		setupPurchaseRouter(svc, new(MockStockReader)).ServeHTTP(w, postPurchase(`{"electroItemId":1,"employeeId":2,"shopId":3}`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "purchaseTypeId", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "CreatePurchase", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupPurchaseRouter(new(MockPurchaseService), new(MockStockReader)).ServeHTTP(w, postPurchase(`{"electroItemId":`, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("oversized idempotency key", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupPurchaseRouter(new(MockPurchaseService), new(MockStockReader)).
			ServeHTTP(w, postPurchase(validPurchaseBody, strings.Repeat("k", maxIdempotencyKeyLength+1)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"sold out", &store.StockUnavailableError{ItemID: 1, ShopID: 3}, http.StatusUnprocessableEntity, dto.ErrCodeStockUnavailable},
		{"unknown employee", &store.ReferenceNotFoundError{Kind: store.KindEmployee, Field: "employeeId", ID: 2}, http.StatusNotFound, dto.ErrCodeReferenceNotFound},
		{"no stock record", &store.StockRecordNotFoundError{ShopID: 3, ItemID: 1}, http.StatusNotFound, dto.ErrCodeStockRecordNotFound},
		{"duplicate", shared.ErrDuplicateRequest, http.StatusConflict, dto.ErrCodeDuplicateRequest},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockPurchaseService)
			svc.On("CreatePurchase", mock.Anything, wantReq, "").Return(nil, tc.err)

			w := httptest.NewRecorder()
			setupPurchaseRouter(svc, new(MockStockReader)).ServeHTTP(w, postPurchase(validPurchaseBody, ""))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestPurchaseHandler_GetPurchase(t *testing.T) {
	svc := new(MockPurchaseService)
	svc.On("GetPurchase", mock.Anything, int64(42)).Return(&store.Purchase{ID: 42}, nil)
	svc.On("GetPurchase", mock.Anything, int64(43)).Return(nil, shared.ErrNotFound)
	router := setupPurchaseRouter(svc, new(MockStockReader))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/purchase/42", http.StatusOK},
		{"/purchase/43", http.StatusNotFound},
		{"/purchase/abc", http.StatusBadRequest},
		{"/purchase/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPurchaseHandler_Stock(t *testing.T) {
	stock := new(MockStockReader)
	stock.On("Stock", mock.Anything, int64(3), int64(1)).Return(&store.ElectroShop{ShopID: 3, ElectroItemID: 1, Count: 0}, nil)
	stock.On("Stock", mock.Anything, int64(9), int64(9)).Return(nil, shared.ErrNotFound)
	stock.On("IsAvailable", mock.Anything, int64(3), int64(1)).Return(true, nil)
	router := setupPurchaseRouter(new(MockPurchaseService), stock)

	t.Run("stock record", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/electroshop?shopId=3&itemId=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(0), data["count"])
		assert.Equal(t, false, data["available"])
	})

	t.Run("missing record", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/electroshop?shopId=9&itemId=9", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing query parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/electroshop?shopId=3", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("availability", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/electroshop/availability?shopId=3&itemId=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, true, data["available"])
	})
}
