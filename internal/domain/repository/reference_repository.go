package repository

import (
	"context"

	"autocrm/internal/domain/entity"
	"autocrm/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for reference data.
var (
	// ErrDistributorNotFound is returned when a distributor is not found.
	ErrDistributorNotFound = errors.New("distributor not found")
	// ErrCarModelNotFound is returned when a car model is not found.
	ErrCarModelNotFound = errors.New("car model not found")
	// ErrSettingNotFound is returned when a settings key has no row.
	ErrSettingNotFound = errors.New("setting not found")
)

// ReferenceRepository defines the interface for catalogue and settings rows.
type ReferenceRepository interface {
	// ListDistributors retrieves all distributors ordered by name.
	ListDistributors(ctx context.Context) ([]*entity.Distributor, error)

	// CreateDistributor persists a new distributor.
	CreateDistributor(ctx context.Context, distributor *entity.Distributor) error

	// DeleteDistributor removes a distributor by its ID.
	DeleteDistributor(ctx context.Context, id uuid.UUID) error

	// ListCarModels retrieves the sellable catalogue ordered by name.
	ListCarModels(ctx context.Context) ([]*entity.CarModel, error)

	// CreateCarModel persists a new catalogue entry.
	CreateCarModel(ctx context.Context, model *entity.CarModel) error

	// DeleteCarModel removes a catalogue entry by its ID.
	DeleteCarModel(ctx context.Context, id uuid.UUID) error

	// GetSetting retrieves one settings row by key.
	GetSetting(ctx context.Context, key string) (*entity.AppSetting, error)

	// PutSetting creates or replaces one settings row.
	PutSetting(ctx context.Context, setting *entity.AppSetting) error
}
