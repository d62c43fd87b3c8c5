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
	"gorm.io/gorm"
)

// transactionRepository implements the repository.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository is the constructor for transactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// CreateTransaction persists a new ledger row.
func (repo *transactionRepository) CreateTransaction(ctx context.Context, txn *entity.Transaction) error {
	txnM := fromTransactionDomain(txn)

	if err := repo.db.WithContext(ctx).Create(txnM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required transaction information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create transaction")
	}

	txn.ID = txnM.ID
	txn.CreatedAt = txnM.CreatedAt

	return nil
}

// FindTransactionByID retrieves a ledger row by its unique ID.
func (repo *transactionRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txnM model.TransactionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&txnM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTransactionNotFound
		}

		return nil, errors.Wrap(err, "failed to find transaction by ID")
	}

	return toTransactionDomain(&txnM), nil
}

// ListTransactionsByCustomer retrieves a deal's ledger rows, newest first.
func (repo *transactionRepository) ListTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Transaction, error) {
	var txnModels []*model.TransactionModel

	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&txnModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list transactions by customer")
	}

	return toTransactionDomainList(txnModels), nil
}

// ListPendingTransactions retrieves all rows awaiting an approval decision.
func (repo *transactionRepository) ListPendingTransactions(ctx context.Context) ([]*entity.Transaction, error) {
	var txnModels []*model.TransactionModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.TxnPending)).
		Order("created_at ASC").
		Find(&txnModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list pending transactions")
	}

	return toTransactionDomainList(txnModels), nil
}

// SumLoansOnDay totals a user's non-rejected loan requests created on the
// calendar day containing the given instant.
func (repo *transactionRepository) SumLoansOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int64, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND status <> ?", userID, string(entity.TxnLoan), string(entity.TxnRejected)).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum loans for day")
	}

	return total, nil
}

// SaveTransaction persists the full current state of an existing row.
func (repo *transactionRepository) SaveTransaction(ctx context.Context, txn *entity.Transaction) error {
	txnM := fromTransactionDomain(txn)

	result := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", txn.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(txnM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to save transaction")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}

	return nil
}

// DeleteTransaction removes a ledger row.
func (repo *transactionRepository) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.TransactionModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete transaction")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}

	return nil
}

// DeleteTransactionsByCustomer removes a deal's whole ledger when the customer is deleted.
func (repo *transactionRepository) DeleteTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.TransactionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete transactions by customer")
	}

	return nil
}

// --- Mapper Functions ---

func toTransactionDomain(data *model.TransactionModel) *entity.Transaction {
	if data == nil {
		return nil
	}

	return &entity.Transaction{
		ID:           data.ID,
		CustomerID:   data.CustomerID,
		CustomerName: data.CustomerName,
		UserID:       data.UserID,
		UserName:     data.UserName,
		Type:         entity.TransactionType(data.Type),
		Amount:       data.Amount,
		Reason:       data.Reason,
		Status:       entity.TransactionStatus(data.Status),
		TargetDate:   data.TargetDate,
		ApprovedBy:   data.ApprovedBy,
		CreatedAt:    data.CreatedAt,
	}
}

func toTransactionDomainList(models []*model.TransactionModel) []*entity.Transaction {
	txns := make([]*entity.Transaction, 0, len(models))
	for _, txnM := range models {
		txns = append(txns, toTransactionDomain(txnM))
	}

	return txns
}

func fromTransactionDomain(data *entity.Transaction) *model.TransactionModel {
	if data == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:           data.ID,
		CustomerID:   data.CustomerID,
		CustomerName: data.CustomerName,
		UserID:       data.UserID,
		UserName:     data.UserName,
		Type:         string(data.Type),
		Amount:       data.Amount,
		Reason:       data.Reason,
		Status:       string(data.Status),
		TargetDate:   data.TargetDate,
		ApprovedBy:   data.ApprovedBy,
		CreatedAt:    data.CreatedAt,
	}
}
