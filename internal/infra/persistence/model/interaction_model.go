package model

import (
	"time"

	"github.com/google/uuid"
)

// InteractionModel is the GORM-specific struct for the 'interactions' table,
// the append-only activity log of a customer.
type InteractionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null"`
	UserName   string
	Type       string `gorm:"not null;default:'note'"`
	Content    string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (InteractionModel) TableName() string {
	return "interactions"
}
