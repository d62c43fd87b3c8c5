package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"autocrm/internal/delivery/http/middleware"
	"autocrm/internal/delivery/http/response"
	"autocrm/internal/domain/entity"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CustomerHandlerParams holds dependencies for CustomerHandler, injected by Fx.
type CustomerHandlerParams struct {
	fx.In

	CustomerUC usecase.CustomerUsecase
	Logger     *slog.Logger
}

// CustomerHandler holds dependencies for customer-related handlers.
type CustomerHandler struct {
	customerUC usecase.CustomerUsecase
	logger     *slog.Logger
}

// NewCustomerHandler is the constructor for CustomerHandler.
func NewCustomerHandler(params CustomerHandlerParams) *CustomerHandler {
	return &CustomerHandler{
		customerUC: params.CustomerUC,
		logger:     params.Logger,
	}
}

// CreateCustomerRequest represents the request body for lead intake.
type CreateCustomerRequest struct {
	Name           string     `json:"name" validate:"required"`
	Phone          string     `json:"phone" validate:"required"`
	SecondaryPhone string     `json:"secondary_phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Location       string     `json:"location,omitempty"`
	Source         string     `json:"source,omitempty"`
	Interest       string     `json:"interest,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AssignedRepID  *uuid.UUID `json:"assigned_rep_id,omitempty"`
}

// UpdateCustomerRequest represents the request body for editing lead fields.
// Absent fields are left untouched.
type UpdateCustomerRequest struct {
	Name           *string `json:"name,omitempty"`
	SecondaryPhone *string `json:"secondary_phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	Location       *string `json:"location,omitempty"`
	Interest       *string `json:"interest,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// CreateCustomer handles the lead intake request. A duplicate phone does
// not create anything; the response identifies the existing record and
// its current owner instead.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.customerUC.CreateCustomer(c.Request().Context(), actor, usecase.CreateCustomerInput{
		Name:           req.Name,
		Phone:          req.Phone,
		SecondaryPhone: req.SecondaryPhone,
		Email:          req.Email,
		Location:       req.Location,
		Source:         req.Source,
		Interest:       req.Interest,
		Notes:          req.Notes,
		AssignedRepID:  req.AssignedRepID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if output.Duplicate != nil {
		return c.JSON(http.StatusConflict, response.Response{
			Success: false,
			Code:    http.StatusConflict,
			Message: "Số điện thoại đã tồn tại trong hệ thống",
			Data:    output.Duplicate,
			Error: &response.ErrorInfo{
				Code:    "DUPLICATE_PHONE",
				Details: "Khách hàng đang được chăm sóc bởi " + output.Duplicate.OwnerName,
			},
		})
	}

	return response.Success(c, http.StatusCreated, output.Customer, "Customer created successfully")
}

// GetCustomer returns one customer with interactions and the caller's
// resolved capability.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	detail, err := h.customerUC.GetCustomer(c.Request().Context(), actor, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detail, "Customer retrieved successfully")
}

// ListCustomers returns the customers visible to the caller, filtered by
// status, search text and pagination query parameters.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	input := usecase.ListCustomersInput{
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				input.Statuses = append(input.Statuses, entity.CustomerStatus(s))
			}
		}
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		input.Page = page
	}
	if pageSize, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		input.PageSize = pageSize
	}

	customers, err := h.customerUC.ListCustomers(c.Request().Context(), actor, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customers, "Customers retrieved successfully")
}

// UpdateCustomer handles partial edits to lead fields.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}

	customer, err := h.customerUC.UpdateCustomer(c.Request().Context(), actor, customerID, usecase.UpdateCustomerInput{
		Name:           req.Name,
		SecondaryPhone: req.SecondaryPhone,
		Email:          req.Email,
		Location:       req.Location,
		Interest:       req.Interest,
		Notes:          req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "Customer updated successfully")
}

// AcknowledgeCustomer marks a newly assigned lead as seen by its rep.
func (h *CustomerHandler) AcknowledgeCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	if err := h.customerUC.AcknowledgeCustomer(c.Request().Context(), actor, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Customer acknowledged")
}

// ClassificationRequest represents the request body for re-rating a lead.
type ClassificationRequest struct {
	Classification string `json:"classification" validate:"required,oneof=Hot Warm Cool"`
}

// SetClassification re-rates a lead's temperature.
func (h *CustomerHandler) SetClassification(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ClassificationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid classification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.customerUC.SetClassification(c.Request().Context(), actor, customerID, entity.Classification(req.Classification)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Classification updated")
}

// RecareRequest represents the request body for scheduling the next contact.
type RecareRequest struct {
	RecareDate *time.Time `json:"recare_date,omitempty"`
}

// SetRecareDate schedules or clears the next contact date.
func (h *CustomerHandler) SetRecareDate(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req RecareRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recare input")
	}

	if err := h.customerUC.SetRecareDate(c.Request().Context(), actor, customerID, req.RecareDate); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Recare date updated")
}

// ToggleRequest represents a boolean flag request body.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// SetSpecialCare toggles daily follow-up mode for a lead.
func (h *CustomerHandler) SetSpecialCare(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid special care input")
	}

	if err := h.customerUC.SetSpecialCare(c.Request().Context(), actor, customerID, req.Enabled); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Special care updated")
}

// LongTermRequest represents the request body for parking a lead long term.
type LongTermRequest struct {
	Enabled    bool       `json:"enabled"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// SetLongTerm parks or un-parks a lead for slow-burn care.
func (h *CustomerHandler) SetLongTerm(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req LongTermRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid long term input")
	}

	if err := h.customerUC.SetLongTerm(c.Request().Context(), actor, customerID, req.Enabled, req.ReturnDate); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Long term care updated")
}

// NoteRequest represents the request body for a care note.
type NoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddNote appends a care note to the customer's interaction history.
func (h *CustomerHandler) AddNote(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid note input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	interaction, err := h.customerUC.AddNote(c.Request().Context(), actor, customerID, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, interaction, "Note added")
}

// ShareRequest represents the request body for granting customer access.
type ShareRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	Permission string    `json:"permission" validate:"required,oneof=view edit"`
}

// ShareCustomer grants another employee access to a customer.
func (h *CustomerHandler) ShareCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req ShareRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid share input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := h.customerUC.ShareCustomer(c.Request().Context(), actor, customerID, req.UserID, entity.SharePermission(req.Permission)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Customer shared")
}

// RevokeShare withdraws a previously granted share.
func (h *CustomerHandler) RevokeShare(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	targetUserID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.customerUC.RevokeShare(c.Request().Context(), actor, customerID, targetUserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Share revoked")
}

// ListShares returns the active shares on a customer.
func (h *CustomerHandler) ListShares(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	shares, err := h.customerUC.ListShares(c.Request().Context(), actor, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, shares, "Shares retrieved successfully")
}

// RequestTransfer asks to take over a customer hit as a duplicate.
func (h *CustomerHandler) RequestTransfer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	if err := h.customerUC.RequestTransfer(c.Request().Context(), actor, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Transfer requested, awaiting approval")
}

// ContactQR streams a vCard QR code for the customer's phone contact.
func (h *CustomerHandler) ContactQR(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	png, err := h.customerUC.ContactQR(c.Request().Context(), actor, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// DeleteCustomer removes a customer and its dependent records.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	if err := h.customerUC.DeleteCustomer(c.Request().Context(), actor, customerID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Customer deleted")
}

// RepairAssignedReps backfills assigned rep IDs from legacy display names.
func (h *CustomerHandler) RepairAssignedReps(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	repaired, err := h.customerUC.RepairAssignedReps(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"repaired": repaired}, "Assignments repaired")
}

// ScanDuplicates reports customers that collide on a normalized phone.
func (h *CustomerHandler) ScanDuplicates(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	groups, err := h.customerUC.ScanDuplicates(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "Duplicate report generated")
}
