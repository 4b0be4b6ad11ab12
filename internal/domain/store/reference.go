package store

// Shop is a retail location
type Shop struct {
	ID      int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name    string `gorm:"type:varchar(150);not null" json:"name"`
	Address string `gorm:"type:text" json:"address"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "store_shop"
}

// ElectroType is a category of electronic goods
type ElectroType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
}

// TableName returns the table name for GORM
func (ElectroType) TableName() string {
	return "store_electro_type"
}

// PositionType is an employee job position
type PositionType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
}

// TableName returns the table name for GORM
func (PositionType) TableName() string {
	return "employee_position"
}

// PurchaseType is a payment method (cash, card, ...)
type PurchaseType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(150);not null" json:"name"`
}

// TableName returns the table name for GORM
func (PurchaseType) TableName() string {
	return "store_purchase_type"
}
