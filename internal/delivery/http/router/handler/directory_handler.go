package handler

import (
	"log/slog"
	"net/http"

	"autocrm/internal/delivery/http/middleware"
	"autocrm/internal/delivery/http/response"
	"autocrm/internal/domain/entity"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DirectoryHandlerParams holds dependencies for DirectoryHandler, injected by Fx.
type DirectoryHandlerParams struct {
	fx.In

	DirectoryUC usecase.DirectoryUsecase
	Logger      *slog.Logger
}

// DirectoryHandler holds dependencies for employee directory and reference
// data handlers.
type DirectoryHandler struct {
	directoryUC usecase.DirectoryUsecase
	logger      *slog.Logger
}

// NewDirectoryHandler is the constructor for DirectoryHandler.
func NewDirectoryHandler(params DirectoryHandlerParams) *DirectoryHandler {
	return &DirectoryHandler{
		directoryUC: params.DirectoryUC,
		logger:      params.Logger,
	}
}

// ListEmployees returns the employees visible to the caller.
func (h *DirectoryHandler) ListEmployees(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	employees, err := h.directoryUC.ListEmployees(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, employees, "Employees retrieved successfully")
}

// ShareTargets returns the employees the caller may share customers with.
func (h *DirectoryHandler) ShareTargets(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	targets, err := h.directoryUC.ShareTargets(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, targets, "Share targets retrieved successfully")
}

// NameRequest represents a request body carrying only a name.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListDistributors returns the distributor reference list.
func (h *DirectoryHandler) ListDistributors(c echo.Context) error {
	distributors, err := h.directoryUC.ListDistributors(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, distributors, "Distributors retrieved successfully")
}

// CreateDistributor adds a distributor to the reference list.
func (h *DirectoryHandler) CreateDistributor(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid distributor input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	distributor, err := h.directoryUC.CreateDistributor(c.Request().Context(), actor, req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, distributor, "Distributor created")
}

// DeleteDistributor removes a distributor from the reference list.
func (h *DirectoryHandler) DeleteDistributor(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	distributorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid distributor ID")
	}

	if err := h.directoryUC.DeleteDistributor(c.Request().Context(), actor, distributorID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Distributor deleted")
}

// ListCarModels returns the car model reference list.
func (h *DirectoryHandler) ListCarModels(c echo.Context) error {
	models, err := h.directoryUC.ListCarModels(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, models, "Car models retrieved successfully")
}

// CreateCarModel adds a car model to the reference list.
func (h *DirectoryHandler) CreateCarModel(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid car model input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	model, err := h.directoryUC.CreateCarModel(c.Request().Context(), actor, req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, model, "Car model created")
}

// DeleteCarModel removes a car model from the reference list.
func (h *DirectoryHandler) DeleteCarModel(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	carModelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid car model ID")
	}

	if err := h.directoryUC.DeleteCarModel(c.Request().Context(), actor, carModelID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Car model deleted")
}

// GetSetting returns one app setting value. A missing key reads as empty.
func (h *DirectoryHandler) GetSetting(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Setting key is required")
	}

	value, err := h.directoryUC.GetSetting(c.Request().Context(), key)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"key": key, "value": value}, "Setting retrieved successfully")
}

// SettingRequest represents the request body for writing an app setting.
type SettingRequest struct {
	Value string `json:"value"`
}

// PutSetting writes one app setting value.
func (h *DirectoryHandler) PutSetting(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	key := c.Param("key")
	if key == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Setting key is required")
	}

	var req SettingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid setting input")
	}

	if err := h.directoryUC.PutSetting(c.Request().Context(), actor, key, req.Value); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Setting saved")
}

// DelegationRequest represents the request body for delegating access to a
// rep's customer book.
type DelegationRequest struct {
	RecipientID  uuid.UUID `json:"recipient_id" validate:"required"`
	TargetUserID uuid.UUID `json:"target_user_id" validate:"required"`
	Level        string    `json:"level,omitempty"`
}

// GrantDelegation opens one rep's whole customer book to another employee.
func (h *DirectoryHandler) GrantDelegation(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var req DelegationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delegation input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	level := entity.SharePermission(req.Level)
	if req.Level == "" {
		level = entity.PermissionView
	}

	if err := h.directoryUC.GrantDelegation(c.Request().Context(), actor, req.RecipientID, req.TargetUserID, level); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Delegation granted")
}

// RevokeDelegation withdraws a book-level delegation.
func (h *DirectoryHandler) RevokeDelegation(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var req DelegationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delegation input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.directoryUC.RevokeDelegation(c.Request().Context(), actor, req.RecipientID, req.TargetUserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Delegation revoked")
}
