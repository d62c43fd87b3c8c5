package impl

import (
	"context"
	"strings"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type directoryService struct {
	profileRepo    repository.ProfileRepository
	referenceRepo  repository.ReferenceRepository
	delegationRepo repository.DelegationRepository
}

// DirectoryServiceParams holds dependencies for DirectoryService, injected by Fx.
type DirectoryServiceParams struct {
	fx.In

	ProfileRepo    repository.ProfileRepository
	ReferenceRepo  repository.ReferenceRepository
	DelegationRepo repository.DelegationRepository
}

// NewDirectoryService creates a new directory service instance
func NewDirectoryService(params DirectoryServiceParams) usecase.DirectoryUsecase {
	return &directoryService{
		profileRepo:    params.ProfileRepo,
		referenceRepo:  params.ReferenceRepo,
		delegationRepo: params.DelegationRepo,
	}
}

// ListEmployees returns the profiles the actor may see.
func (s *directoryService) ListEmployees(ctx context.Context, actor *entity.UserProfile) ([]*entity.UserProfile, error) {
	profiles, err := s.reachableProfiles(ctx, actor, true)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// ShareTargets returns the profiles the actor may share with or hand a
// customer to.
func (s *directoryService) ShareTargets(ctx context.Context, actor *entity.UserProfile) ([]*entity.UserProfile, error) {
	return s.reachableProfiles(ctx, actor, false)
}

// ListDistributors returns the dealer catalogue.
func (s *directoryService) ListDistributors(ctx context.Context) ([]*entity.Distributor, error) {
	return s.referenceRepo.ListDistributors(ctx)
}

// CreateDistributor adds a dealer.
func (s *directoryService) CreateDistributor(ctx context.Context, actor *entity.UserProfile, name string) (*entity.Distributor, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("distributor name is empty")
	}

	distributor := &entity.Distributor{Name: name}
	if err := s.referenceRepo.CreateDistributor(ctx, distributor); err != nil {
		return nil, err
	}

	return distributor, nil
}

// DeleteDistributor removes a dealer.
func (s *directoryService) DeleteDistributor(ctx context.Context, actor *entity.UserProfile, distributorID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	if err := s.referenceRepo.DeleteDistributor(ctx, distributorID); err != nil {
		if errors.Is(err, repository.ErrDistributorNotFound) {
			return domainerrors.ErrDistributorNotFound
		}
		return err
	}

	return nil
}

// ListCarModels returns the sellable catalogue, falling back to the
// built-in lineup while the table is still empty.
func (s *directoryService) ListCarModels(ctx context.Context) ([]*entity.CarModel, error) {
	models, err := s.referenceRepo.ListCarModels(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		fallback := make([]*entity.CarModel, 0, len(entity.DefaultCarModels))
		for _, name := range entity.DefaultCarModels {
			fallback = append(fallback, &entity.CarModel{Name: name})
		}

		return fallback, nil
	}

	return models, nil
}

// CreateCarModel adds a catalogue entry.
func (s *directoryService) CreateCarModel(ctx context.Context, actor *entity.UserProfile, name string) (*entity.CarModel, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("car model name is empty")
	}

	model := &entity.CarModel{Name: name}
	if err := s.referenceRepo.CreateCarModel(ctx, model); err != nil {
		return nil, err
	}

	return model, nil
}

// DeleteCarModel removes a catalogue entry.
func (s *directoryService) DeleteCarModel(ctx context.Context, actor *entity.UserProfile, carModelID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	if err := s.referenceRepo.DeleteCarModel(ctx, carModelID); err != nil {
		if errors.Is(err, repository.ErrCarModelNotFound) {
			return domainerrors.ErrCarModelNotFound
		}
		return err
	}

	return nil
}

// GetSetting reads one application setting, empty when unset.
func (s *directoryService) GetSetting(ctx context.Context, key string) (string, error) {
	setting, err := s.referenceRepo.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrSettingNotFound) {
			return "", nil
		}
		return "", err
	}

	return setting.Value, nil
}

// PutSetting writes one application setting.
func (s *directoryService) PutSetting(ctx context.Context, actor *entity.UserProfile, key, value string) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("setting key is empty")
	}

	return s.referenceRepo.PutSetting(ctx, &entity.AppSetting{Key: key, Value: value, UpdatedBy: &actor.ID})
}

// GrantDelegation hands a recipient standing access to a target's customers.
// Non-elevated actors may only delegate their own book.
func (s *directoryService) GrantDelegation(ctx context.Context, actor *entity.UserProfile, recipientID, targetUserID uuid.UUID, level entity.SharePermission) error {
	if level != entity.PermissionView && level != entity.PermissionEdit {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown access level")
	}
	if recipientID == targetUserID {
		return domainerrors.ErrValidationFailed.WrapMessage("recipient and target are the same user")
	}
	if !actor.Role.IsElevated() && targetUserID != actor.ID {
		return domainerrors.ErrElevatedOnly
	}

	recipient, err := s.profileRepo.FindProfileByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domainerrors.ErrProfileNotFound
		}
		return err
	}
	if !recipient.CanSignIn() {
		return domainerrors.ErrProfileNotFound
	}

	return s.delegationRepo.CreateDelegation(ctx, &entity.AccessDelegation{
		GrantorID:    actor.ID,
		RecipientID:  recipientID,
		TargetUserID: targetUserID,
		AccessLevel:  level,
	})
}

// RevokeDelegation removes a standing delegation.
func (s *directoryService) RevokeDelegation(ctx context.Context, actor *entity.UserProfile, recipientID, targetUserID uuid.UUID) error {
	delegation, err := s.delegationRepo.FindDelegation(ctx, recipientID, targetUserID)
	if err != nil {
		return err
	}
	if delegation == nil {
		return domainerrors.ErrShareNotFound
	}
	if !actor.Role.IsElevated() && delegation.GrantorID != actor.ID && delegation.TargetUserID != actor.ID {
		return domainerrors.ErrElevatedOnly
	}

	return s.delegationRepo.DeleteDelegation(ctx, delegation.ID)
}

// reachableProfiles resolves the actor's slice of the org chart. Elevated
// roles see everyone active.
func (s *directoryService) reachableProfiles(ctx context.Context, actor *entity.UserProfile, includeSelf bool) ([]*entity.UserProfile, error) {
	profiles, err := s.profileRepo.ListActiveProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID == actor.ID {
			if includeSelf {
				p.PasswordHash = ""
				out = append(out, p)
			}

			continue
		}
		if actor.Role.IsElevated() || withinReach(actor, p) {
			p.PasswordHash = ""
			out = append(out, p)
		}
	}

	return out, nil
}
