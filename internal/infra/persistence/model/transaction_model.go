package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionModel is the GORM-specific struct for the 'transactions' table.
// Rows are append-only; approval flips status but amounts never change.
type TransactionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName string
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName     string
	Type         string `gorm:"not null;index"`
	Amount       int64  `gorm:"not null"`
	Reason       string `gorm:"type:text"`
	Status       string `gorm:"not null;index;default:'pending'"`
	TargetDate   *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}
