package model

import (
	"time"

	"github.com/google/uuid"
)

// CustomerShareModel is the GORM-specific struct for the 'customer_shares' table.
// One row per (customer, user) pair, enforced by a composite unique index.
type CustomerShareModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customer_shares_pair"`
	SharedBy   uuid.UUID `gorm:"type:uuid;not null"`
	SharedWith uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customer_shares_pair;index"`
	Permission string    `gorm:"not null;default:'view'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerShareModel) TableName() string {
	return "customer_shares"
}

// AccessDelegationModel is the GORM-specific struct for the 'access_delegations'
// table, granting a recipient standing access to a target user's customers.
type AccessDelegationModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GrantorID    uuid.UUID `gorm:"type:uuid;not null"`
	RecipientID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_access_delegations_pair"`
	TargetUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_access_delegations_pair"`
	AccessLevel  string    `gorm:"not null;default:'view'"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccessDelegationModel) TableName() string {
	return "access_delegations"
}
