package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"autocrm/internal/domain/entity"
)

// CustomerModel is the GORM-specific struct for the 'customers' table.
// Deal details and the delivery checklist are stored as JSONB documents
// next to the scalar columns.
type CustomerModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name                 string    `gorm:"not null"`
	Phone                string    `gorm:"not null;uniqueIndex"`
	SecondaryPhone       string
	Email                string
	Location             string
	Source               string
	Interest             string
	Status               string `gorm:"not null;index"`
	Classification       string
	CreatorID            uuid.UUID `gorm:"type:uuid;not null;index"`
	AssignedRepID        *uuid.UUID `gorm:"type:uuid;index"`
	SalesRep             string
	Notes                string `gorm:"type:text"`
	RecareDate           *time.Time
	IsSpecialCare        bool `gorm:"not null;default:false"`
	SpecialCareStartDate *time.Time
	IsLongTerm           bool `gorm:"not null;default:false"`
	IsAcknowledged       bool `gorm:"not null;default:false"`
	PendingTransferTo    *uuid.UUID `gorm:"type:uuid"`
	StopReason           string
	DealStatus           string `gorm:"index"`
	DealDetails          datatypes.JSONType[*entity.DealDetails]
	DeliveryProgress     datatypes.JSONType[entity.DeliveryProgress]
	WonAt                *time.Time
	FinanceDone          bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}
