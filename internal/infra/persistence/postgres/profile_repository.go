package postgres

import (
	"context"

	"autocrm/internal/domain/entity"
	"autocrm/internal/domain/repository"
	"autocrm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// FindProfileByID retrieves a profile by its unique ID.
func (repo *profileRepository) FindProfileByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	var profileM model.UserProfileModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by ID")
	}

	return toProfileDomain(&profileM), nil
}

// FindProfileByEmail retrieves a profile by login email.
func (repo *profileRepository) FindProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	var profileM model.UserProfileModel

	if err := repo.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile by email")
	}

	return toProfileDomain(&profileM), nil
}

// ListActiveProfiles retrieves every active employee account.
func (repo *profileRepository) ListActiveProfiles(ctx context.Context) ([]*entity.UserProfile, error) {
	var profileModels []*model.UserProfileModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.ProfileActive)).
		Order("full_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active profiles")
	}

	return toProfileDomainList(profileModels), nil
}

// ListProfilesByManager retrieves the direct reports of a team lead.
func (repo *profileRepository) ListProfilesByManager(ctx context.Context, managerID uuid.UUID) ([]*entity.UserProfile, error) {
	var profileModels []*model.UserProfileModel

	if err := repo.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("full_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list profiles by manager")
	}

	return toProfileDomainList(profileModels), nil
}

// --- Mapper Functions ---

func toProfileDomain(data *model.UserProfileModel) *entity.UserProfile {
	if data == nil {
		return nil
	}

	return &entity.UserProfile{
		ID:           data.ID,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FullName:     data.FullName,
		Phone:        data.Phone,
		Role:         entity.Role(data.Role),
		Status:       entity.ProfileStatus(data.Status),
		ManagerID:    data.ManagerID,
		KPITarget:    data.KPITarget,
		MemberTier:   data.MemberTier,
		IsLockedAdd:  data.IsLockedAdd,
		IsLockedView: data.IsLockedView,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toProfileDomainList(models []*model.UserProfileModel) []*entity.UserProfile {
	profiles := make([]*entity.UserProfile, 0, len(models))
	for _, profileM := range models {
		profiles = append(profiles, toProfileDomain(profileM))
	}

	return profiles
}
