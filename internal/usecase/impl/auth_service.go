package impl

import (
	"context"
	"strings"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/domain/service"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type authService struct {
	profileRepo    repository.ProfileRepository
	passwordHasher service.PasswordHasher
	tokenService   service.TokenService
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	ProfileRepo    repository.ProfileRepository
	PasswordHasher service.PasswordHasher
	TokenService   service.TokenService
}

// NewAuthService creates a new authentication service instance
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		profileRepo:    params.ProfileRepo,
		passwordHasher: params.PasswordHasher,
		tokenService:   params.TokenService,
	}
}

// Login verifies the credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domainerrors.ErrInvalidCredentials
	}

	profile, err := s.profileRepo.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordHasher.Check(password, profile.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !profile.CanSignIn() {
		return nil, domainerrors.ErrAccountLocked
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(profile.ID, string(profile.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	profile.PasswordHash = ""

	return &usecase.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
	}, nil
}

// Me loads the profile behind a validated token.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	profile, err := s.profileRepo.FindProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domainerrors.ErrProfileNotFound
		}
		return nil, err
	}

	profile.PasswordHash = ""

	return profile, nil
}
