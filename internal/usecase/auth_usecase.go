package usecase

import (
	"context"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// AuthResult is the token pair issued on a successful sign-in.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Profile      *entity.UserProfile
}

// AuthUsecase authenticates users and resolves the signed-in profile.
type AuthUsecase interface {
	// Login verifies the credentials and issues a token pair. Locked or
	// inactive accounts are rejected.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Me loads the profile behind a validated token.
	Me(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
}
