package postgres

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// customerRepository implements the repository.CustomerRepository interface.
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{
		db: db,
	}
}

// CreateCustomer persists a new customer row.
func (repo *customerRepository) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := repo.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCustomerPhone
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required customer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create customer")
	}

	// Update the entity with generated values
	customer.ID = customerM.ID
	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// FindCustomerByID retrieves a customer by its unique ID.
func (repo *customerRepository) FindCustomerByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customerM model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by ID")
	}

	return toCustomerDomain(&customerM), nil
}

// FindCustomerByPhone retrieves a customer by normalized primary phone.
func (repo *customerRepository) FindCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customerM model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&customerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.Wrap(err, "failed to find customer by phone")
	}

	return toCustomerDomain(&customerM), nil
}

// ListCustomers retrieves customers matching the filter, newest first.
func (repo *customerRepository) ListCustomers(ctx context.Context, filter repository.CustomerListFilter) ([]*entity.Customer, error) {
	query := repo.db.WithContext(ctx).Model(&model.CustomerModel{})

	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.AssignedRepID != nil {
		query = query.Where("assigned_rep_id = ?", *filter.AssignedRepID)
	}
	if filter.VisibleTo != nil {
		sharedIDs := repo.db.Model(&model.CustomerShareModel{}).
			Select("customer_id").
			Where("shared_with = ?", *filter.VisibleTo)
		visible := repo.db.
			Where("creator_id = ?", *filter.VisibleTo).
			Or("assigned_rep_id = ?", *filter.VisibleTo).
			Or("id IN (?)", sharedIDs)
		if len(filter.DelegatedTargetIDs) > 0 {
			visible = visible.
				Or("creator_id IN ?", filter.DelegatedTargetIDs).
				Or("assigned_rep_id IN ?", filter.DelegatedTargetIDs)
		}
		query = query.Where(visible)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var customerModels []*model.CustomerModel
	if err := query.Order("created_at DESC").Find(&customerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}

	return toCustomerDomainList(customerModels), nil
}

// ListWonCustomers retrieves customers in the won state for the delivery monitor.
func (repo *customerRepository) ListWonCustomers(ctx context.Context) ([]*entity.Customer, error) {
	var customerModels []*model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.StatusWon)).
		Order("won_at ASC NULLS LAST, created_at ASC").
		Find(&customerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list won customers")
	}

	return toCustomerDomainList(customerModels), nil
}

// ListPendingApprovals retrieves customers awaiting a lifecycle, deal or transfer decision.
func (repo *customerRepository) ListPendingApprovals(ctx context.Context) ([]*entity.Customer, error) {
	var customerModels []*model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("status IN ?", []string{string(entity.StatusWonPending), string(entity.StatusLostPending)}).
		Or("deal_status IN ?", []string{
			string(entity.DealCompletedPending),
			string(entity.DealRefundedPending),
			string(entity.DealSuspendedPending),
		}).
		Or("pending_transfer_to IS NOT NULL").
		Order("updated_at ASC").
		Find(&customerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list pending approvals")
	}

	return toCustomerDomainList(customerModels), nil
}

// ListCustomersWithoutAssignedRep retrieves rows whose rep link was never resolved.
func (repo *customerRepository) ListCustomersWithoutAssignedRep(ctx context.Context) ([]*entity.Customer, error) {
	var customerModels []*model.CustomerModel

	if err := repo.db.WithContext(ctx).
		Where("assigned_rep_id IS NULL AND sales_rep <> ''").
		Find(&customerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list customers without assigned rep")
	}

	return toCustomerDomainList(customerModels), nil
}

// SaveCustomer persists the full current state of an existing customer.
func (repo *customerRepository) SaveCustomer(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", customer.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(customerM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCustomerPhone
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to save customer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// UpdateWonAt stamps the win time once a closing request is approved.
func (repo *customerRepository) UpdateWonAt(ctx context.Context, id uuid.UUID, wonAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", id).
		Update("won_at", wonAt)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update won_at")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// DeleteCustomer removes a customer row.
func (repo *customerRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CustomerModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete customer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCustomerDomain converts a GORM CustomerModel to a domain Customer entity.
func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	progress := data.DeliveryProgress.Data()
	if progress == nil {
		progress = entity.DeliveryProgress{}
	}

	return &entity.Customer{
		ID:                   data.ID,
		Name:                 data.Name,
		Phone:                data.Phone,
		SecondaryPhone:       data.SecondaryPhone,
		Email:                data.Email,
		Location:             data.Location,
		Source:               data.Source,
		Interest:             data.Interest,
		Status:               entity.CustomerStatus(data.Status),
		Classification:       entity.Classification(data.Classification),
		CreatorID:            data.CreatorID,
		AssignedRepID:        data.AssignedRepID,
		SalesRep:             data.SalesRep,
		Notes:                data.Notes,
		RecareDate:           data.RecareDate,
		IsSpecialCare:        data.IsSpecialCare,
		SpecialCareStartDate: data.SpecialCareStartDate,
		IsLongTerm:           data.IsLongTerm,
		IsAcknowledged:       data.IsAcknowledged,
		PendingTransferTo:    data.PendingTransferTo,
		StopReason:           data.StopReason,
		DealStatus:           entity.DealStatus(data.DealStatus),
		DealDetails:          data.DealDetails.Data(),
		DeliveryProgress:     progress,
		WonAt:                data.WonAt,
		FinanceDone:          data.FinanceDone,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}

func toCustomerDomainList(models []*model.CustomerModel) []*entity.Customer {
	customers := make([]*entity.Customer, 0, len(models))
	for _, customerM := range models {
		customers = append(customers, toCustomerDomain(customerM))
	}

	return customers
}

// fromCustomerDomain converts a domain Customer entity to a GORM CustomerModel.
func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	if data == nil {
		return nil
	}

	return &model.CustomerModel{
		ID:                   data.ID,
		Name:                 data.Name,
		Phone:                data.Phone,
		SecondaryPhone:       data.SecondaryPhone,
		Email:                data.Email,
		Location:             data.Location,
		Source:               data.Source,
		Interest:             data.Interest,
		Status:               string(data.Status),
		Classification:       string(data.Classification),
		CreatorID:            data.CreatorID,
		AssignedRepID:        data.AssignedRepID,
		SalesRep:             data.SalesRep,
		Notes:                data.Notes,
		RecareDate:           data.RecareDate,
		IsSpecialCare:        data.IsSpecialCare,
		SpecialCareStartDate: data.SpecialCareStartDate,
		IsLongTerm:           data.IsLongTerm,
		IsAcknowledged:       data.IsAcknowledged,
		PendingTransferTo:    data.PendingTransferTo,
		StopReason:           data.StopReason,
		DealStatus:           string(data.DealStatus),
		DealDetails:          datatypes.NewJSONType(data.DealDetails),
		DeliveryProgress:     datatypes.NewJSONType(data.DeliveryProgress),
		WonAt:                data.WonAt,
		FinanceDone:          data.FinanceDone,
		CreatedAt:            data.CreatedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}
