package repository

import (
	"context"

	"autocrm/internal/domain/entity"
	"autocrm/internal/errors"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when an employee profile is not found.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the interface for employee account operations.
type ProfileRepository interface {
	// FindProfileByID retrieves a profile by its unique ID.
	FindProfileByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)

	// FindProfileByEmail retrieves a profile by login email.
	FindProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error)

	// ListActiveProfiles retrieves every active employee account.
	ListActiveProfiles(ctx context.Context) ([]*entity.UserProfile, error)

	// ListProfilesByManager retrieves the direct reports of a team lead.
	ListProfilesByManager(ctx context.Context, managerID uuid.UUID) ([]*entity.UserProfile, error)
}
