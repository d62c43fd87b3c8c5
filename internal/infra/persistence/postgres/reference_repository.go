package postgres

import (
	"context"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// referenceRepository implements the repository.ReferenceRepository interface.
type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository is the constructor for referenceRepository.
func NewReferenceRepository(db *gorm.DB) repository.ReferenceRepository {
	return &referenceRepository{
		db: db,
	}
}

// ListDistributors retrieves all distributors ordered by name.
func (repo *referenceRepository) ListDistributors(ctx context.Context) ([]*entity.Distributor, error) {
	var distributorModels []*model.DistributorModel

	if err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&distributorModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list distributors")
	}

	distributors := make([]*entity.Distributor, 0, len(distributorModels))
	for _, distributorM := range distributorModels {
		distributors = append(distributors, &entity.Distributor{
			ID:        distributorM.ID,
			Name:      distributorM.Name,
			Address:   distributorM.Address,
			Hotline:   distributorM.Hotline,
			CreatedAt: distributorM.CreatedAt,
		})
	}

	return distributors, nil
}

// CreateDistributor persists a new distributor.
func (repo *referenceRepository) CreateDistributor(ctx context.Context, distributor *entity.Distributor) error {
	distributorM := &model.DistributorModel{
		ID:      distributor.ID,
		Name:    distributor.Name,
		Address: distributor.Address,
		Hotline: distributor.Hotline,
	}

	if err := repo.db.WithContext(ctx).Create(distributorM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create distributor")
	}

	distributor.ID = distributorM.ID
	distributor.CreatedAt = distributorM.CreatedAt

	return nil
}

// DeleteDistributor removes a distributor by its ID.
func (repo *referenceRepository) DeleteDistributor(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.DistributorModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete distributor")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDistributorNotFound
	}

	return nil
}

// ListCarModels retrieves the sellable catalogue ordered by name.
func (repo *referenceRepository) ListCarModels(ctx context.Context) ([]*entity.CarModel, error) {
	var carModels []*model.CarModelModel

	if err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&carModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list car models")
	}

	models := make([]*entity.CarModel, 0, len(carModels))
	for _, carM := range carModels {
		models = append(models, &entity.CarModel{
			ID:        carM.ID,
			Name:      carM.Name,
			Segment:   carM.Segment,
			CreatedAt: carM.CreatedAt,
		})
	}

	return models, nil
}

// CreateCarModel persists a new catalogue entry.
func (repo *referenceRepository) CreateCarModel(ctx context.Context, carModel *entity.CarModel) error {
	carM := &model.CarModelModel{
		ID:      carModel.ID,
		Name:    carModel.Name,
		Segment: carModel.Segment,
	}

	if err := repo.db.WithContext(ctx).Create(carM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create car model")
	}

	carModel.ID = carM.ID
	carModel.CreatedAt = carM.CreatedAt

	return nil
}

// DeleteCarModel removes a catalogue entry by its ID.
func (repo *referenceRepository) DeleteCarModel(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CarModelModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete car model")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCarModelNotFound
	}

	return nil
}

// GetSetting retrieves one settings row by key.
func (repo *referenceRepository) GetSetting(ctx context.Context, key string) (*entity.AppSetting, error) {
	var settingM model.AppSettingModel

	if err := repo.db.WithContext(ctx).
		Where("key = ?", key).
		First(&settingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSettingNotFound
		}

		return nil, errors.Wrap(err, "failed to get setting")
	}

	return &entity.AppSetting{
		Key:       settingM.Key,
		Value:     settingM.Value,
		UpdatedBy: settingM.UpdatedBy,
		UpdatedAt: settingM.UpdatedAt,
	}, nil
}

// PutSetting creates or replaces one settings row.
func (repo *referenceRepository) PutSetting(ctx context.Context, setting *entity.AppSetting) error {
	settingM := &model.AppSettingModel{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedBy: setting.UpdatedBy,
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(settingM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to put setting")
	}

	setting.UpdatedAt = settingM.UpdatedAt

	return nil
}
