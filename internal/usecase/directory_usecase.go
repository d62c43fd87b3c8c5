package usecase

import (
	"context"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// DirectoryUsecase serves the people directory, the catalog reference data
// and standing access delegations.
type DirectoryUsecase interface {
	// ListEmployees returns the profiles the actor may see: elevated roles
	// get every active profile, employees their manager, teammates and
	// direct reports.
	ListEmployees(ctx context.Context, actor *entity.UserProfile) ([]*entity.UserProfile, error)

	// ShareTargets returns the profiles the actor may share a customer with
	// or reassign one to. Same reach rules as ListEmployees, minus the actor.
	ShareTargets(ctx context.Context, actor *entity.UserProfile) ([]*entity.UserProfile, error)

	// ListDistributors returns the dealer catalog.
	ListDistributors(ctx context.Context) ([]*entity.Distributor, error)

	// CreateDistributor adds a dealer. Elevated only.
	CreateDistributor(ctx context.Context, actor *entity.UserProfile, name string) (*entity.Distributor, error)

	// DeleteDistributor removes a dealer. Elevated only.
	DeleteDistributor(ctx context.Context, actor *entity.UserProfile, distributorID uuid.UUID) error

	// ListCarModels returns the car catalog, falling back to the built-in
	// lineup when the table is empty.
	ListCarModels(ctx context.Context) ([]*entity.CarModel, error)

	// CreateCarModel adds a car model. Elevated only.
	CreateCarModel(ctx context.Context, actor *entity.UserProfile, name string) (*entity.CarModel, error)

	// DeleteCarModel removes a car model. Elevated only.
	DeleteCarModel(ctx context.Context, actor *entity.UserProfile, carModelID uuid.UUID) error

	// GetSetting reads one application setting.
	GetSetting(ctx context.Context, key string) (string, error)

	// PutSetting writes one application setting. Elevated only.
	PutSetting(ctx context.Context, actor *entity.UserProfile, key, value string) error

	// GrantDelegation lets the actor hand a recipient standing access to a
	// target user's customers.
	GrantDelegation(ctx context.Context, actor *entity.UserProfile, recipientID, targetUserID uuid.UUID, level entity.SharePermission) error

	// RevokeDelegation removes a standing delegation the actor granted.
	RevokeDelegation(ctx context.Context, actor *entity.UserProfile, recipientID, targetUserID uuid.UUID) error
}
