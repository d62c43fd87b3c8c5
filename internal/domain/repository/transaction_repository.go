package repository

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"
	"autocrm/internal/errors"

	"github.com/google/uuid"
)

// ErrTransactionNotFound is returned when a ledger row is not found.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for ledger database operations.
type TransactionRepository interface {
	// CreateTransaction persists a new ledger row.
	CreateTransaction(ctx context.Context, txn *entity.Transaction) error

	// FindTransactionByID retrieves a ledger row by its unique ID.
	FindTransactionByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// ListTransactionsByCustomer retrieves a deal's ledger rows, newest first.
	ListTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Transaction, error)

	// ListPendingTransactions retrieves all rows awaiting an approval decision.
	ListPendingTransactions(ctx context.Context) ([]*entity.Transaction, error)

	// SumLoansOnDay totals a user's non-rejected loan requests created on the
	// calendar day containing the given instant. Backs the daily loan cap.
	SumLoansOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int64, error)

	// SaveTransaction persists the full current state of an existing row.
	SaveTransaction(ctx context.Context, txn *entity.Transaction) error

	// DeleteTransaction removes a ledger row.
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	// DeleteTransactionsByCustomer removes a deal's whole ledger when the
	// customer is deleted.
	DeleteTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) error
}
