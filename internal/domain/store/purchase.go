package store

import (
	"time"
)

// Purchase is the append-only record of a completed sale.
type Purchase struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	ElectroItemID  int64     `gorm:"not null;index" json:"electroItemId"`
	EmployeeID     int64     `gorm:"not null;index" json:"employeeId"`
	ShopID         int64     `gorm:"not null;index" json:"shopId"`
	PurchaseTypeID int64     `gorm:"not null;index" json:"purchaseTypeId"`
	PurchaseDate   time.Time `gorm:"not null" json:"purchaseDate"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "store_purchase"
}

// PurchaseRequest identifies everything a new sale refers to.
type PurchaseRequest struct {
	ElectroItemID  int64
	EmployeeID     int64
	ShopID         int64
	PurchaseTypeID int64
}

// NewPurchase builds a purchase for the request, stamped with at.
// The ID is assigned by the database on insert.
func NewPurchase(req PurchaseRequest, at time.Time) *Purchase {
	return &Purchase{
		ElectroItemID:  req.ElectroItemID,
		EmployeeID:     req.EmployeeID,
		ShopID:         req.ShopID,
		PurchaseTypeID: req.PurchaseTypeID,
		PurchaseDate:   at,
	}
}
