package repository

import (
	"context"

	"autocrm/internal/domain/entity"
	"autocrm/internal/errors"

	"github.com/google/uuid"
)

// ErrShareNotFound is returned when a share row is not found.
var ErrShareNotFound = errors.New("share not found")

// ShareRepository defines the interface for per-customer share operations.
type ShareRepository interface {
	// UpsertShare creates or updates the share for a (customer, user) pair.
	UpsertShare(ctx context.Context, share *entity.CustomerShare) error

	// FindShare retrieves the share granted to one user on one customer.
	FindShare(ctx context.Context, customerID, userID uuid.UUID) (*entity.CustomerShare, error)

	// ListSharesByCustomer retrieves every share on a customer.
	ListSharesByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CustomerShare, error)

	// DeleteShare revokes one user's share on a customer.
	DeleteShare(ctx context.Context, customerID, userID uuid.UUID) error

	// DeleteSharesByCustomer removes all shares when a customer is deleted.
	DeleteSharesByCustomer(ctx context.Context, customerID uuid.UUID) error
}

// DelegationRepository defines the interface for standing access delegations.
type DelegationRepository interface {
	// FindDelegation retrieves the delegation letting recipient act on
	// customers owned by target, or nil when none exists.
	FindDelegation(ctx context.Context, recipientID, targetUserID uuid.UUID) (*entity.AccessDelegation, error)

	// CreateDelegation persists a new delegation.
	CreateDelegation(ctx context.Context, delegation *entity.AccessDelegation) error

	// DeleteDelegation removes a delegation by its ID.
	DeleteDelegation(ctx context.Context, id uuid.UUID) error

	// ListDelegationsForRecipient retrieves every delegation granted to a user.
	ListDelegationsForRecipient(ctx context.Context, recipientID uuid.UUID) ([]*entity.AccessDelegation, error)
}
