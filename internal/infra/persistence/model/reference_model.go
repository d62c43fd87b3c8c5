package model

import (
	"time"

	"github.com/google/uuid"
)

// DistributorModel is the GORM-specific struct for the 'distributors' table.
type DistributorModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"not null;uniqueIndex"`
	Address   string
	Hotline   string
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DistributorModel) TableName() string {
	return "distributors"
}

// CarModelModel is the GORM-specific struct for the 'car_models' table.
type CarModelModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"not null;uniqueIndex"`
	Segment   string
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CarModelModel) TableName() string {
	return "car_models"
}

// AppSettingModel is the GORM-specific struct for the 'app_settings' table.
type AppSettingModel struct {
	Key       string `gorm:"primary_key"`
	Value     string `gorm:"type:text"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (AppSettingModel) TableName() string {
	return "app_settings"
}
