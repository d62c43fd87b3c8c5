package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autocrm/internal/domain/entity"
	"autocrm/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	args := m.Called(userID, role)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindProfileByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *mockProfileRepo) FindProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *mockProfileRepo) ListActiveProfiles(ctx context.Context) ([]*entity.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.UserProfile), args.Error(1)
}

func (m *mockProfileRepo) ListProfilesByManager(ctx context.Context, managerID uuid.UUID) ([]*entity.UserProfile, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.UserProfile), args.Error(1)
}

func newAuthContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func passthrough(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(new(mockTokenService), new(mockProfileRepo))
	c, rec := newAuthContext("")

	err := m.Authenticate(passthrough)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(new(mockTokenService), new(mockProfileRepo))
	c, rec := newAuthContext("Basic abc123")

	err := m.Authenticate(passthrough)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	t.Parallel()

	tokenSvc := new(mockTokenService)
	tokenSvc.On("ValidateToken", "refresh-token").Return(&service.Claims{
		UserID: uuid.New(),
		Role:   string(entity.RoleEmployee),
		Type:   "refresh",
	}, nil)

	m := NewAuthMiddleware(tokenSvc, new(mockProfileRepo))
	c, rec := newAuthContext("Bearer refresh-token")

	err := m.Authenticate(passthrough)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InactiveAccount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tokenSvc := new(mockTokenService)
	tokenSvc.On("ValidateToken", "good-token").Return(&service.Claims{
		UserID: userID,
		Role:   string(entity.RoleEmployee),
		Type:   "access",
	}, nil)

	profileRepo := new(mockProfileRepo)
	profileRepo.On("FindProfileByID", mock.Anything, userID).Return(&entity.UserProfile{
		ID:     userID,
		Status: entity.ProfileInactive,
	}, nil)

	m := NewAuthMiddleware(tokenSvc, profileRepo)
	c, rec := newAuthContext("Bearer good-token")

	err := m.Authenticate(passthrough)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticate_LoadsActor(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	tokenSvc := new(mockTokenService)
	tokenSvc.On("ValidateToken", "good-token").Return(&service.Claims{
		UserID: userID,
		Role:   string(entity.RoleEmployee),
		Type:   "access",
	}, nil)

	profile := &entity.UserProfile{
		ID:     userID,
		Email:  "rep@example.com",
		Role:   entity.RoleEmployee,
		Status: entity.ProfileActive,
	}
	profileRepo := new(mockProfileRepo)
	profileRepo.On("FindProfileByID", mock.Anything, userID).Return(profile, nil)

	m := NewAuthMiddleware(tokenSvc, profileRepo)
	c, rec := newAuthContext("Bearer good-token")

	var seen *entity.UserProfile
	err := m.Authenticate(func(c echo.Context) error {
		actor, ok := GetActor(c)
		require.True(t, ok)
		seen = actor

		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, userID, seen.ID)
}

func TestRequireElevated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		role     entity.Role
		wantCode int
	}{
		{name: "employee denied", role: entity.RoleEmployee, wantCode: http.StatusForbidden},
		{name: "mod allowed", role: entity.RoleMod, wantCode: http.StatusOK},
		{name: "admin allowed", role: entity.RoleAdmin, wantCode: http.StatusOK},
	}

	m := NewAuthMiddleware(new(mockTokenService), new(mockProfileRepo))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, rec := newAuthContext("")
			c.Set("actor", &entity.UserProfile{ID: uuid.New(), Role: tt.role, Status: entity.ProfileActive})

			err := m.RequireElevated(passthrough)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
