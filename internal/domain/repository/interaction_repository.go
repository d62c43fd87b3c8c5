package repository

import (
	"context"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// InteractionRepository defines the interface for activity-log database operations.
type InteractionRepository interface {
	// CreateInteraction appends an entry to a customer's activity log.
	CreateInteraction(ctx context.Context, interaction *entity.Interaction) error

	// ListInteractionsByCustomer retrieves a customer's log, newest first.
	ListInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Interaction, error)

	// DeleteInteractionsByCustomer removes the whole log when a customer is deleted.
	DeleteInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) error
}
