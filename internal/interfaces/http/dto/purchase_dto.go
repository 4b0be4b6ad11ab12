package dto

import (
	"time"

	"github.com/Apolones/estore/internal/domain/store"
)

// CreatePurchaseRequest is the body of POST /purchase
type CreatePurchaseRequest struct {
	ElectroItemID  int64 `json:"electroItemId" binding:"required,min=1" example:"1"`
	EmployeeID     int64 `json:"employeeId" binding:"required,min=1" example:"2"`
	ShopID         int64 `json:"shopId" binding:"required,min=1" example:"3"`
	PurchaseTypeID int64 `json:"purchaseTypeId" binding:"required,min=1" example:"1"`
}

// ToDomain converts the request
func (r CreatePurchaseRequest) ToDomain() store.PurchaseRequest {
	return store.PurchaseRequest{
		ElectroItemID:  r.ElectroItemID,
		EmployeeID:     r.EmployeeID,
		ShopID:         r.ShopID,
		PurchaseTypeID: r.PurchaseTypeID,
	}
}

// PurchaseResponse is a stored purchase
// @Description Completed purchase
type PurchaseResponse struct {
	ID             int64     `json:"id" example:"42"`
	ElectroItemID  int64     `json:"electroItemId" example:"1"`
	EmployeeID     int64     `json:"employeeId" example:"2"`
	ShopID         int64     `json:"shopId" example:"3"`
	PurchaseTypeID int64     `json:"purchaseTypeId" example:"1"`
	PurchaseDate   time.Time `json:"purchaseDate"`
}

// NewPurchaseResponse converts a purchase
func NewPurchaseResponse(p *store.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:             p.ID,
		ElectroItemID:  p.ElectroItemID,
		EmployeeID:     p.EmployeeID,
		ShopID:         p.ShopID,
		PurchaseTypeID: p.PurchaseTypeID,
		PurchaseDate:   p.PurchaseDate,
	}
}

// StockQuery identifies one stock record
type StockQuery struct {
	ShopID int64 `form:"shopId" binding:"required,min=1"`
	ItemID int64 `form:"itemId" binding:"required,min=1"`
}

// StockResponse is a stock record
// @Description Units of an item left in a shop
type StockResponse struct {
	ShopID        int64 `json:"shopId" example:"3"`
	ElectroItemID int64 `json:"electroItemId" example:"1"`
	Count         int   `json:"count" example:"5"`
	Available     bool  `json:"available" example:"true"`
}

// NewStockResponse converts a stock record
func NewStockResponse(s *store.ElectroShop) StockResponse {
	return StockResponse{
		ShopID:        s.ShopID,
		ElectroItemID: s.ElectroItemID,
		Count:         s.Count,
		Available:     s.IsAvailable(),
	}
}

// AvailabilityResponse answers the availability query
// @Description Advisory availability; a purchase may still find the item sold out
type AvailabilityResponse struct {
	Available bool `json:"available" example:"true"`
}
