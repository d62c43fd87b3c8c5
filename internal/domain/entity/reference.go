package entity

import (
	"time"

	"github.com/google/uuid"
)

// Distributor is a dealership the company sources cars from.
type Distributor struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Hotline   string
	CreatedAt time.Time
}

// CarModel is one sellable model in the catalogue.
type CarModel struct {
	ID        uuid.UUID
	Name      string
	Segment   string
	CreatedAt time.Time
}

// DefaultCarModels seeds the catalogue when the reference table is empty,
// so intake forms are never blank on a fresh install.
var DefaultCarModels = []string{
	"VF 3", "VF 5", "VF 6", "VF 7", "VF 8", "VF 9",
	"Herio Green", "Nerio Green", "Limo Green", "Minio Green", "EC Van",
}

// AppSetting is one key-value row of runtime configuration editable by admins.
type AppSetting struct {
	Key       string
	Value     string
	UpdatedBy *uuid.UUID
	UpdatedAt time.Time
}
