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

// DealHandlerParams holds dependencies for DealHandler, injected by Fx.
type DealHandlerParams struct {
	fx.In

	DealUC usecase.DealUsecase
	Logger *slog.Logger
}

// DealHandler holds dependencies for deal lifecycle handlers.
type DealHandler struct {
	dealUC usecase.DealUsecase
	logger *slog.Logger
}

// NewDealHandler is the constructor for DealHandler.
func NewDealHandler(params DealHandlerParams) *DealHandler {
	return &DealHandler{
		dealUC: params.DealUC,
		logger: params.Logger,
	}
}

// WinRequest represents the deal form submitted with a win request.
type WinRequest struct {
	CarModel        string `json:"car_model" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
	PlateType       string `json:"plate_type,omitempty"`
	Revenue         int64  `json:"revenue"`
	Distributor     string `json:"distributor,omitempty"`
	CarAvailability string `json:"car_availability,omitempty"`
	HasAccessories  bool   `json:"has_accessories"`
	Notes           string `json:"notes,omitempty"`
}

// RequestWin submits a deal form and moves the customer into the win
// approval queue.
func (h *DealHandler) RequestWin(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req WinRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid deal form")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	err = h.dealUC.RequestWin(c.Request().Context(), actor, customerID, usecase.DealForm{
		CarModel:        req.CarModel,
		PaymentMethod:   req.PaymentMethod,
		PlateType:       req.PlateType,
		Revenue:         req.Revenue,
		Distributor:     req.Distributor,
		CarAvailability: req.CarAvailability,
		HasAccessories:  req.HasAccessories,
		Notes:           req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Win requested, awaiting approval")
}

// ReasonRequest represents a request body carrying only a reason string.
type ReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

// StopCare asks to stop caring for a lead.
func (h *DealHandler) StopCare(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ReasonRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stop care input")
	}

	if err := h.dealUC.StopCare(c.Request().Context(), actor, customerID, req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Stop care requested")
}

// ReopenCare returns a lost customer to active care.
func (h *DealHandler) ReopenCare(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	if err := h.dealUC.ReopenCare(c.Request().Context(), actor, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Care reopened")
}

// DealActionRequest represents a settlement request against a won deal.
type DealActionRequest struct {
	Action string `json:"action" validate:"required,oneof=complete refund suspend resume cancel"`
	Reason string `json:"reason,omitempty"`
}

// RequestDealAction submits a settlement action on a won deal.
func (h *DealHandler) RequestDealAction(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req DealActionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid deal action input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.dealUC.RequestDealAction(c.Request().Context(), actor, customerID, entity.DealAction(req.Action), req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Deal action requested")
}

// ApproveCustomer settles whatever is pending on the customer, in
// transfer, win, lost, deal-action priority order.
func (h *DealHandler) ApproveCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	if err := h.dealUC.ApproveCustomer(c.Request().Context(), actor, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Request approved")
}

// RejectCustomer declines whatever is pending on the customer.
func (h *DealHandler) RejectCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ReasonRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reject input")
	}

	if err := h.dealUC.RejectCustomer(c.Request().Context(), actor, customerID, req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Request rejected")
}

// ListPendingApprovals returns every customer awaiting a manager decision.
func (h *DealHandler) ListPendingApprovals(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	approvals, err := h.dealUC.ListPendingApprovals(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, approvals, "Pending approvals retrieved successfully")
}

// ChangeRepRequest represents the request body for handing a customer to
// another rep.
type ChangeRepRequest struct {
	RepID uuid.UUID `json:"rep_id" validate:"required"`
}

// ChangeSalesRep hands the customer to a different responsible rep.
func (h *DealHandler) ChangeSalesRep(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ChangeRepRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sales rep input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.dealUC.ChangeSalesRep(c.Request().Context(), actor, customerID, req.RepID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Sales rep changed")
}
