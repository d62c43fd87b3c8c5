package handler

import (
	"log/slog"
	"net/http"

	"autocrm/internal/delivery/http/middleware"
	"autocrm/internal/delivery/http/response"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProgressHandlerParams holds dependencies for ProgressHandler, injected by Fx.
type ProgressHandlerParams struct {
	fx.In

	ProgressUC usecase.ProgressUsecase
	Logger     *slog.Logger
}

// ProgressHandler holds dependencies for delivery checklist handlers.
type ProgressHandler struct {
	progressUC usecase.ProgressUsecase
	logger     *slog.Logger
}

// NewProgressHandler is the constructor for ProgressHandler.
func NewProgressHandler(params ProgressHandlerParams) *ProgressHandler {
	return &ProgressHandler{
		progressUC: params.ProgressUC,
		logger:     params.Logger,
	}
}

// GetProgress returns the delivery checklist for a won customer.
func (h *ProgressHandler) GetProgress(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	view, err := h.progressUC.GetProgress(c.Request().Context(), actor, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Progress retrieved successfully")
}

// ToggleStep flips one checklist step, enforcing step order.
func (h *ProgressHandler) ToggleStep(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	stepKey := c.Param("step")
	if stepKey == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Step key is required")
	}

	view, err := h.progressUC.ToggleStep(c.Request().Context(), actor, customerID, stepKey)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Step toggled")
}

// CarAvailabilityRequest represents the request body for switching the
// car sourcing state.
type CarAvailabilityRequest struct {
	Availability string `json:"availability" validate:"required"`
}

// SetCarAvailability switches the deal between in-stock and waiting.
func (h *ProgressHandler) SetCarAvailability(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req CarAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid car availability input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.progressUC.SetCarAvailability(c.Request().Context(), actor, customerID, req.Availability); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Car availability updated")
}

// Monitor returns the delivery monitor board, bucketed into waiting,
// on-track and late deals.
func (h *ProgressHandler) Monitor(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	view, err := h.progressUC.Monitor(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Monitor retrieved successfully")
}
