package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides the common persistence fields of uuid-keyed tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
