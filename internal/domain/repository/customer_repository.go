// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"
	"autocrm/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for customer persistence.
var (
	// ErrCustomerNotFound is returned when a customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateCustomerPhone is returned when the normalized phone already exists.
	ErrDuplicateCustomerPhone = errors.New("customer phone already exists")
)

// CustomerListFilter narrows customer listings. Zero values mean "no filter".
type CustomerListFilter struct {
	CreatorID     *uuid.UUID
	AssignedRepID *uuid.UUID
	// VisibleTo restricts the listing to rows the user created, is assigned
	// to, or was granted via a share. DelegatedTargetIDs widens it with the
	// users whose books the viewer covers by delegation.
	VisibleTo          *uuid.UUID
	DelegatedTargetIDs []uuid.UUID
	Statuses           []entity.CustomerStatus
	Limit              int
	Offset             int
}

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	// CreateCustomer persists a new customer row.
	CreateCustomer(ctx context.Context, customer *entity.Customer) error

	// FindCustomerByID retrieves a customer by its unique ID.
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// FindCustomerByPhone retrieves a customer by normalized primary phone.
	FindCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error)

	// ListCustomers retrieves customers matching the filter, newest first.
	ListCustomers(ctx context.Context, filter CustomerListFilter) ([]*entity.Customer, error)

	// ListWonCustomers retrieves customers in the won state for the delivery monitor.
	ListWonCustomers(ctx context.Context) ([]*entity.Customer, error)

	// ListPendingApprovals retrieves customers awaiting a lifecycle, deal or
	// transfer decision.
	ListPendingApprovals(ctx context.Context) ([]*entity.Customer, error)

	// ListCustomersWithoutAssignedRep retrieves rows whose rep link was never
	// resolved, used by the directory repair pass.
	ListCustomersWithoutAssignedRep(ctx context.Context) ([]*entity.Customer, error)

	// SaveCustomer persists the full current state of an existing customer.
	SaveCustomer(ctx context.Context, customer *entity.Customer) error

	// UpdateWonAt stamps the win time once a closing request is approved.
	UpdateWonAt(ctx context.Context, id uuid.UUID, wonAt time.Time) error

	// DeleteCustomer removes a customer row.
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}
