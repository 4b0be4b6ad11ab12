package store

// ElectroItem is a catalog entry of electronic goods.
// Price is a whole amount without minor units.
type ElectroItem struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string `gorm:"type:varchar(150);not null" json:"name"`
	ElectroTypeID int64  `gorm:"not null;index" json:"electroTypeId"`
	Price         int64  `gorm:"not null" json:"price"`
	Count         int    `gorm:"not null;default:0" json:"count"`
	Archive       bool   `gorm:"not null;default:false" json:"archive"`
	Description   string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (ElectroItem) TableName() string {
	return "store_electro_item"
}
