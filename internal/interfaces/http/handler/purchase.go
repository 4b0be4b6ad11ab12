package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/Apolones/estore/internal/domain/store"
	"github.com/Apolones/estore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client's deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the header value
const maxIdempotencyKeyLength = 255

// PurchaseService creates and reads purchases
type PurchaseService interface {
	CreatePurchase(ctx context.Context, req store.PurchaseRequest, idempotencyKey string) (*store.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*store.Purchase, error)
}

// StockReader reads the shop stock counters
type StockReader interface {
	IsAvailable(ctx context.Context, shopID, itemID int64) (bool, error)
	Stock(ctx context.Context, shopID, itemID int64) (*store.ElectroShop, error)
}

// PurchaseHandler handles purchases and stock queries
type PurchaseHandler struct {
	BaseHandler
	purchases PurchaseService
	stock     StockReader
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases PurchaseService, stock StockReader) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
		stock:     stock,
	}
}

// CreatePurchase godoc
// @Summary      Buy one unit of an item
// @Description  Decrements the shop's stock of the item and records the purchase in one transaction. A sold-out item is rejected and nothing is stored.
// @Tags         purchase
// @ID           createPurchase
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key	header		string						false	"Deduplication key"
// @Param        request			body		dto.CreatePurchaseRequest	true	"Purchase"
// @Success      201				{object}	APIResponse[dto.PurchaseResponse]
// @Failure      400				{object}	ErrorResponse
// @Failure      404				{object}	ErrorResponse
// @Failure      409				{object}	ErrorResponse
// @Failure      422				{object}	ErrorResponse
// @Failure      500				{object}	ErrorResponse
// @Router       /purchase [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	purchase, err := h.purchases.CreatePurchase(c.Request.Context(), req.ToDomain(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewPurchaseResponse(purchase))
}

// GetPurchase godoc
// @Summary      Get a purchase
// @Tags         purchase
// @ID           getPurchase
// @Produce      json
// @Param        id	path		int	true	"Purchase ID"
// @Success      200	{object}	APIResponse[dto.PurchaseResponse]
// @Failure      400	{object}	ErrorResponse
// @Failure      404	{object}	ErrorResponse
// @Failure      500	{object}	ErrorResponse
// @Router       /purchase/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchases.GetPurchase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewPurchaseResponse(purchase))
}

// GetStock godoc
// @Summary      Get the stock of an item in a shop
// @Tags         stock
// @ID           getStock
// @Produce      json
// @Param        shopId	query		int	true	"Shop ID"
// @Param        itemId	query		int	true	"Electro item ID"
// @Success      200		{object}	APIResponse[dto.StockResponse]
// @Failure      400		{object}	ErrorResponse
// @Failure      404		{object}	ErrorResponse
// @Failure      500		{object}	ErrorResponse
// @Router       /electroshop [get]
func (h *PurchaseHandler) GetStock(c *gin.Context) {
	var q dto.StockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	record, err := h.stock.Stock(c.Request.Context(), q.ShopID, q.ItemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewStockResponse(record))
}

// GetAvailability godoc
// @Summary      Check whether a shop has an item
// @Description  Advisory answer. A missing stock record reads as unavailable.
// @Tags         stock
// @ID           getAvailability
// @Produce      json
// @Param        shopId	query		int	true	"Shop ID"
// @Param        itemId	query		int	true	"Electro item ID"
// @Success      200		{object}	APIResponse[dto.AvailabilityResponse]
// @Failure      400		{object}	ErrorResponse
// @Failure      500		{object}	ErrorResponse
// @Router       /electroshop/availability [get]
func (h *PurchaseHandler) GetAvailability(c *gin.Context) {
	var q dto.StockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	available, err := h.stock.IsAvailable(c.Request.Context(), q.ShopID, q.ItemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.AvailabilityResponse{Available: available})
}
