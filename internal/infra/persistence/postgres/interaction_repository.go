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
)

// interactionRepository implements the repository.InteractionRepository interface.
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository is the constructor for interactionRepository.
func NewInteractionRepository(db *gorm.DB) repository.InteractionRepository {
	return &interactionRepository{
		db: db,
	}
}

// CreateInteraction appends an entry to a customer's activity log.
func (repo *interactionRepository) CreateInteraction(ctx context.Context, interaction *entity.Interaction) error {
	interactionM := fromInteractionDomain(interaction)

	if err := repo.db.WithContext(ctx).Create(interactionM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create interaction")
	}

	interaction.ID = interactionM.ID
	interaction.CreatedAt = interactionM.CreatedAt

	return nil
}

// ListInteractionsByCustomer retrieves a customer's log, newest first.
func (repo *interactionRepository) ListInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Interaction, error) {
	var interactionModels []*model.InteractionModel

	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&interactionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list interactions")
	}

	interactions := make([]*entity.Interaction, 0, len(interactionModels))
	for _, interactionM := range interactionModels {
		interactions = append(interactions, toInteractionDomain(interactionM))
	}

	return interactions, nil
}

// DeleteInteractionsByCustomer removes the whole log when a customer is deleted.
func (repo *interactionRepository) DeleteInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.InteractionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete interactions")
	}

	return nil
}

// --- Mapper Functions ---

func toInteractionDomain(data *model.InteractionModel) *entity.Interaction {
	if data == nil {
		return nil
	}

	return &entity.Interaction{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		UserID:     data.UserID,
		UserName:   data.UserName,
		Type:       entity.InteractionType(data.Type),
		Content:    data.Content,
		CreatedAt:  data.CreatedAt,
	}
}

func fromInteractionDomain(data *entity.Interaction) *model.InteractionModel {
	if data == nil {
		return nil
	}

	return &model.InteractionModel{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		UserID:     data.UserID,
		UserName:   data.UserName,
		Type:       string(data.Type),
		Content:    data.Content,
		CreatedAt:  data.CreatedAt,
	}
}
