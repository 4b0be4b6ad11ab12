package store

import "time"

// Employee works at a shop in a given position. ShopID is nil for staff
// without a shop assignment.
type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"lastName"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"firstName"`
	Patronymic string    `gorm:"type:varchar(100)" json:"patronymic"`
	BirthDate  time.Time `gorm:"type:date;not null" json:"birthDate"`
	PositionID int64     `gorm:"not null;index" json:"positionId"`
	ShopID     *int64    `gorm:"index" json:"shopId,omitempty"`
	Gender     bool      `gorm:"not null" json:"gender"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employee"
}

// ElectroEmployee links an employee to an electronics category they can sell.
type ElectroEmployee struct {
	EmployeeID    int64 `gorm:"primaryKey;autoIncrement:false" json:"employeeId"`
	ElectroTypeID int64 `gorm:"primaryKey;autoIncrement:false" json:"electroTypeId"`
}

// TableName returns the table name for GORM
func (ElectroEmployee) TableName() string {
	return "store_electro_employee"
}
