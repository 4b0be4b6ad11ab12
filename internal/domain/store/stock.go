package store

// ElectroShop is the stock record: how many units of an item remain in a shop.
// Count never goes below zero.
type ElectroShop struct {
	ShopID        int64 `gorm:"primaryKey;autoIncrement:false" json:"shopId"`
	ElectroItemID int64 `gorm:"primaryKey;autoIncrement:false" json:"electroItemId"`
	Count         int   `gorm:"not null;default:0;check:chk_store_eshop_count,count >= 0" json:"count"`
}

// TableName returns the table name for GORM
func (ElectroShop) TableName() string {
	return "store_eshop"
}

// IsAvailable reports whether at least one unit remains
func (s *ElectroShop) IsAvailable() bool {
	return s.Count > 0
}

// Models returns every persistent entity, in load order, for schema creation.
func Models() []any {
	return []any{
		&Shop{},
		&ElectroType{},
		&PositionType{},
		&PurchaseType{},
		&ElectroItem{},
		&Employee{},
		&Purchase{},
		&ElectroShop{},
		&ElectroEmployee{},
	}
}
