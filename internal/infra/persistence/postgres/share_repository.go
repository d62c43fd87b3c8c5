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

// shareRepository implements the repository.ShareRepository interface.
type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository is the constructor for shareRepository.
func NewShareRepository(db *gorm.DB) repository.ShareRepository {
	return &shareRepository{
		db: db,
	}
}

// UpsertShare creates or updates the share for a (customer, user) pair.
func (repo *shareRepository) UpsertShare(ctx context.Context, share *entity.CustomerShare) error {
	shareM := fromShareDomain(share)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "shared_with"}},
			DoUpdates: clause.AssignmentColumns([]string{"permission", "shared_by", "updated_at"}),
		}).
		Create(shareM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert share")
	}

	share.ID = shareM.ID
	share.CreatedAt = shareM.CreatedAt
	share.UpdatedAt = shareM.UpdatedAt

	return nil
}

// FindShare retrieves the share granted to one user on one customer.
func (repo *shareRepository) FindShare(ctx context.Context, customerID, userID uuid.UUID) (*entity.CustomerShare, error) {
	var shareM model.CustomerShareModel

	if err := repo.db.WithContext(ctx).
		Where("customer_id = ? AND shared_with = ?", customerID, userID).
		First(&shareM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrShareNotFound
		}

		return nil, errors.Wrap(err, "failed to find share")
	}

	return toShareDomain(&shareM), nil
}

// ListSharesByCustomer retrieves every share on a customer.
func (repo *shareRepository) ListSharesByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CustomerShare, error) {
	var shareModels []*model.CustomerShareModel

	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&shareModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list shares by customer")
	}

	shares := make([]*entity.CustomerShare, 0, len(shareModels))
	for _, shareM := range shareModels {
		shares = append(shares, toShareDomain(shareM))
	}

	return shares, nil
}

// DeleteShare revokes one user's share on a customer.
func (repo *shareRepository) DeleteShare(ctx context.Context, customerID, userID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("customer_id = ? AND shared_with = ?", customerID, userID).
		Delete(&model.CustomerShareModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete share")
	}
	if result.RowsAffected == 0 {
		return repository.ErrShareNotFound
	}

	return nil
}

// DeleteSharesByCustomer removes all shares when a customer is deleted.
func (repo *shareRepository) DeleteSharesByCustomer(ctx context.Context, customerID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.CustomerShareModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete shares by customer")
	}

	return nil
}

// delegationRepository implements the repository.DelegationRepository interface.
type delegationRepository struct {
	db *gorm.DB
}

// NewDelegationRepository is the constructor for delegationRepository.
func NewDelegationRepository(db *gorm.DB) repository.DelegationRepository {
	return &delegationRepository{
		db: db,
	}
}

// FindDelegation retrieves the delegation letting recipient act on customers
// owned by target, or nil when none exists.
func (repo *delegationRepository) FindDelegation(ctx context.Context, recipientID, targetUserID uuid.UUID) (*entity.AccessDelegation, error) {
	var delegationM model.AccessDelegationModel

	if err := repo.db.WithContext(ctx).
		Where("recipient_id = ? AND target_user_id = ?", recipientID, targetUserID).
		First(&delegationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find delegation")
	}

	return toDelegationDomain(&delegationM), nil
}

// CreateDelegation persists a new delegation.
func (repo *delegationRepository) CreateDelegation(ctx context.Context, delegation *entity.AccessDelegation) error {
	delegationM := fromDelegationDomain(delegation)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "target_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_level", "grantor_id"}),
		}).
		Create(delegationM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create delegation")
	}

	delegation.ID = delegationM.ID
	delegation.CreatedAt = delegationM.CreatedAt

	return nil
}

// DeleteDelegation removes a delegation by its ID.
func (repo *delegationRepository) DeleteDelegation(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AccessDelegationModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete delegation")
	}
	if result.RowsAffected == 0 {
		return repository.ErrShareNotFound
	}

	return nil
}

// ListDelegationsForRecipient retrieves every delegation granted to a user.
func (repo *delegationRepository) ListDelegationsForRecipient(ctx context.Context, recipientID uuid.UUID) ([]*entity.AccessDelegation, error) {
	var delegationModels []*model.AccessDelegationModel

	if err := repo.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Find(&delegationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list delegations for recipient")
	}

	delegations := make([]*entity.AccessDelegation, 0, len(delegationModels))
	for _, delegationM := range delegationModels {
		delegations = append(delegations, toDelegationDomain(delegationM))
	}

	return delegations, nil
}

// --- Mapper Functions ---

func toShareDomain(data *model.CustomerShareModel) *entity.CustomerShare {
	if data == nil {
		return nil
	}

	return &entity.CustomerShare{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		SharedBy:   data.SharedBy,
		SharedWith: data.SharedWith,
		Permission: entity.SharePermission(data.Permission),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromShareDomain(data *entity.CustomerShare) *model.CustomerShareModel {
	if data == nil {
		return nil
	}

	return &model.CustomerShareModel{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		SharedBy:   data.SharedBy,
		SharedWith: data.SharedWith,
		Permission: string(data.Permission),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func toDelegationDomain(data *model.AccessDelegationModel) *entity.AccessDelegation {
	if data == nil {
		return nil
	}

	return &entity.AccessDelegation{
		ID:           data.ID,
		GrantorID:    data.GrantorID,
		RecipientID:  data.RecipientID,
		TargetUserID: data.TargetUserID,
		AccessLevel:  entity.SharePermission(data.AccessLevel),
		CreatedAt:    data.CreatedAt,
	}
}

func fromDelegationDomain(data *entity.AccessDelegation) *model.AccessDelegationModel {
	if data == nil {
		return nil
	}

	return &model.AccessDelegationModel{
		ID:           data.ID,
		GrantorID:    data.GrantorID,
		RecipientID:  data.RecipientID,
		TargetUserID: data.TargetUserID,
		AccessLevel:  string(data.AccessLevel),
		CreatedAt:    data.CreatedAt,
	}
}
