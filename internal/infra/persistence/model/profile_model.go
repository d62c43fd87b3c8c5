package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProfileModel is the GORM-specific struct for the 'user_profiles' table,
// one row per employee account.
type UserProfileModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	Phone        string
	Role         string `gorm:"not null;default:'employee'"`
	Status       string `gorm:"not null;default:'active'"`
	ManagerID    *uuid.UUID `gorm:"type:uuid;index"`
	KPITarget    int    `gorm:"not null;default:0"`
	MemberTier   int    `gorm:"not null;default:0"`
	IsLockedAdd  bool   `gorm:"not null;default:false"`
	IsLockedView bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}
