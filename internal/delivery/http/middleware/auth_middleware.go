package middleware

import (
	"strings"

	deliverycontext "autocrm/internal/delivery/context"
	"autocrm/internal/delivery/http/response"
	"autocrm/internal/domain/entity"
	"autocrm/internal/domain/repository"
	"autocrm/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc    service.TokenService
	profileRepo repository.ProfileRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, profileRepo repository.ProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, profileRepo: profileRepo}
}

// Authenticate validates the JWT access token and loads the employee profile
// behind it. Handlers downstream read the profile with GetActor; every
// permission decision happens server side against that profile.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}
		if claims.Type != "access" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Refresh token cannot be used for API access")
		}

		profile, err := m.profileRepo.FindProfileByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Employee account not found")
		}
		if !profile.CanSignIn() {
			return response.Forbidden(c, "ACCOUNT_INACTIVE", "Account is deactivated")
		}

		c.Set(string(deliverycontext.KeyActor), profile)

		return next(c)
	}
}

// RequireElevated rejects requests from accounts below mod level.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireElevated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := GetActor(c)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
		}
		if !actor.Role.IsElevated() {
			return response.Forbidden(c, "ELEVATED_ONLY", "Manager role required")
		}

		return next(c)
	}
}

// GetActor returns the authenticated employee profile stored by Authenticate.
func GetActor(c echo.Context) (*entity.UserProfile, bool) {
	actor, ok := c.Get(string(deliverycontext.KeyActor)).(*entity.UserProfile)
	if !ok || actor == nil {
		return nil, false
	}

	return actor, true
}
