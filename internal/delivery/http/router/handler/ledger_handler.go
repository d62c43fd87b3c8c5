package handler

import (
	"context"
	"log/slog"
	"net/http"
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

// LedgerHandlerParams holds dependencies for LedgerHandler, injected by Fx.
type LedgerHandlerParams struct {
	fx.In

	LedgerUC usecase.LedgerUsecase
	Logger   *slog.Logger
}

// LedgerHandler holds dependencies for the per-deal finance handlers.
type LedgerHandler struct {
	ledgerUC usecase.LedgerUsecase
	logger   *slog.Logger
}

// NewLedgerHandler is the constructor for LedgerHandler.
func NewLedgerHandler(params LedgerHandlerParams) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC: params.LedgerUC,
		logger:   params.Logger,
	}
}

// MoneyRequestBody represents the request body for a ledger money row.
type MoneyRequestBody struct {
	Amount     Amount     `json:"amount" validate:"required"`
	Reason     string     `json:"reason,omitempty"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	IsNewDebt  bool       `json:"is_new_debt,omitempty"`
}

func (r MoneyRequestBody) toInput() usecase.MoneyRequest {
	return usecase.MoneyRequest{
		Amount:     int64(r.Amount),
		Reason:     r.Reason,
		TargetDate: r.TargetDate,
		IsNewDebt:  r.IsNewDebt,
	}
}

// GetLedger projects the finance summary and transaction list for a won
// customer.
func (h *LedgerHandler) GetLedger(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	view, err := h.ledgerUC.GetLedger(c.Request().Context(), actor, customerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, view, "Ledger retrieved successfully")
}

// AmountRequest represents a request body carrying only an amount.
type AmountRequest struct {
	Amount Amount `json:"amount"`
}

// RecordActualRevenue books the realized revenue figure on the deal.
func (h *LedgerHandler) RecordActualRevenue(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req AmountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid revenue input")
	}

	if err := h.ledgerUC.RecordActualRevenue(c.Request().Context(), actor, customerID, int64(req.Amount)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Actual revenue recorded")
}

// AddIncurredExpense books a cost against the deal without approval.
func (h *LedgerHandler) AddIncurredExpense(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.AddIncurredExpense, "Incurred expense recorded")
}

// RequestDeposit records a customer deposit row.
func (h *LedgerHandler) RequestDeposit(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.RequestDeposit, "Deposit requested")
}

// RequestExpense records an expense row awaiting approval.
func (h *LedgerHandler) RequestExpense(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.RequestExpense, "Expense requested")
}

// RequestAdvance records a company advance row awaiting approval.
func (h *LedgerHandler) RequestAdvance(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.RequestAdvance, "Advance requested")
}

// BorrowLoan records a same-day loan row, subject to the daily cap.
func (h *LedgerHandler) BorrowLoan(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.BorrowLoan, "Loan requested")
}

// RequestRepayment records an advance repayment row.
func (h *LedgerHandler) RequestRepayment(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.RequestRepayment, "Repayment requested")
}

// RequestLoanRepayment records a loan repayment row.
func (h *LedgerHandler) RequestLoanRepayment(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.RequestLoanRepayment, "Loan repayment requested")
}

// AddDealerDebt records an amount the dealer owes back on the deal.
func (h *LedgerHandler) AddDealerDebt(c echo.Context) error {
	return h.handleMoneyRow(c, h.ledgerUC.AddDealerDebt, "Dealer debt recorded")
}

type moneyRowOp func(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error

// handleMoneyRow binds the shared money request body and dispatches to the
// given ledger operation.
func (h *LedgerHandler) handleMoneyRow(c echo.Context, op moneyRowOp, message string) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req MoneyRequestBody
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid money request input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	if err := op(c.Request().Context(), actor, customerID, req.toInput()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, message)
}

// MarkDealerDebtCollected stamps a dealer debt row as collected.
func (h *LedgerHandler) MarkDealerDebtCollected(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid transaction ID")
	}

	if err := h.ledgerUC.MarkDealerDebtCollected(c.Request().Context(), actor, transactionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Dealer debt collected")
}

// ApproveTransaction approves a pending money row.
func (h *LedgerHandler) ApproveTransaction(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid transaction ID")
	}

	if err := h.ledgerUC.ApproveTransaction(c.Request().Context(), actor, transactionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Transaction approved")
}

// RejectTransaction declines a pending money row.
func (h *LedgerHandler) RejectTransaction(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid transaction ID")
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reject input")
	}

	if err := h.ledgerUC.RejectTransaction(c.Request().Context(), actor, transactionID, req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Transaction rejected")
}

// DeleteTransaction removes a money row outright.
func (h *LedgerHandler) DeleteTransaction(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid transaction ID")
	}

	if err := h.ledgerUC.DeleteTransaction(c.Request().Context(), actor, transactionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Transaction deleted")
}

// ListPendingTransactions returns every money row awaiting approval.
func (h *LedgerHandler) ListPendingTransactions(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	transactions, err := h.ledgerUC.ListPendingTransactions(c.Request().Context(), actor)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, transactions, "Pending transactions retrieved successfully")
}

// FinanceDoneRequest represents the request body for closing the books on
// a deal.
type FinanceDoneRequest struct {
	Done bool `json:"done"`
}

// MarkFinanceDone flags a won deal's ledger as settled.
func (h *LedgerHandler) MarkFinanceDone(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Authentication required")
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid customer ID")
	}

	var req FinanceDoneRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid finance done input")
	}

	if err := h.ledgerUC.MarkFinanceDone(c.Request().Context(), actor, customerID, req.Done); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Finance status updated")
}
