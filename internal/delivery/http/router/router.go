// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"autocrm/internal/delivery/http/middleware"
	"autocrm/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	CustomerHandler  *handler.CustomerHandler
	DealHandler      *handler.DealHandler
	LedgerHandler    *handler.LedgerHandler
	ProgressHandler  *handler.ProgressHandler
	DirectoryHandler *handler.DirectoryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler      *handler.AuthHandler
	customerHandler  *handler.CustomerHandler
	dealHandler      *handler.DealHandler
	ledgerHandler    *handler.LedgerHandler
	progressHandler  *handler.ProgressHandler
	directoryHandler *handler.DirectoryHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:      params.AuthHandler,
		customerHandler:  params.CustomerHandler,
		dealHandler:      params.DealHandler,
		ledgerHandler:    params.LedgerHandler,
		progressHandler:  params.ProgressHandler,
		directoryHandler: params.DirectoryHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Everything below requires a signed-in employee
	api := e.Group("", r.authMiddleware.Authenticate)

	api.GET("/me", r.authHandler.Me)

	// Customer book
	customers := api.Group("/customers")
	{
		customers.POST("", r.customerHandler.CreateCustomer)
		customers.GET("", r.customerHandler.ListCustomers)
		customers.GET("/:id", r.customerHandler.GetCustomer)
		customers.PUT("/:id", r.customerHandler.UpdateCustomer)
		customers.POST("/:id/acknowledge", r.customerHandler.AcknowledgeCustomer)
		customers.PUT("/:id/classification", r.customerHandler.SetClassification)
		customers.PUT("/:id/recare-date", r.customerHandler.SetRecareDate)
		customers.PUT("/:id/special-care", r.customerHandler.SetSpecialCare)
		customers.PUT("/:id/long-term", r.customerHandler.SetLongTerm)
		customers.POST("/:id/notes", r.customerHandler.AddNote)
		customers.GET("/:id/shares", r.customerHandler.ListShares)
		customers.POST("/:id/shares", r.customerHandler.ShareCustomer)
		customers.DELETE("/:id/shares/:userID", r.customerHandler.RevokeShare)
		customers.POST("/:id/transfer-request", r.customerHandler.RequestTransfer)
		customers.GET("/:id/contact-qr", r.customerHandler.ContactQR)

		// Deal lifecycle
		customers.POST("/:id/deal/win", r.dealHandler.RequestWin)
		customers.POST("/:id/deal/stop", r.dealHandler.StopCare)
		customers.POST("/:id/deal/reopen", r.dealHandler.ReopenCare)
		customers.POST("/:id/deal/action", r.dealHandler.RequestDealAction)
		customers.PUT("/:id/sales-rep", r.dealHandler.ChangeSalesRep)

		// Finance ledger, scoped to the won deal
		customers.GET("/:id/ledger", r.ledgerHandler.GetLedger)
		customers.PUT("/:id/ledger/actual-revenue", r.ledgerHandler.RecordActualRevenue)
		customers.POST("/:id/ledger/incurred-expenses", r.ledgerHandler.AddIncurredExpense)
		customers.POST("/:id/ledger/deposits", r.ledgerHandler.RequestDeposit)
		customers.POST("/:id/ledger/expenses", r.ledgerHandler.RequestExpense)
		customers.POST("/:id/ledger/advances", r.ledgerHandler.RequestAdvance)
		customers.POST("/:id/ledger/loans", r.ledgerHandler.BorrowLoan)
		customers.POST("/:id/ledger/repayments", r.ledgerHandler.RequestRepayment)
		customers.POST("/:id/ledger/loan-repayments", r.ledgerHandler.RequestLoanRepayment)
		customers.POST("/:id/ledger/dealer-debts", r.ledgerHandler.AddDealerDebt)

		// Delivery checklist
		customers.GET("/:id/progress", r.progressHandler.GetProgress)
		customers.POST("/:id/progress/:step/toggle", r.progressHandler.ToggleStep)
		customers.PUT("/:id/car-availability", r.progressHandler.SetCarAvailability)
	}

	// Money rows addressed by transaction ID
	transactions := api.Group("/transactions")
	{
		transactions.POST("/:id/collect", r.ledgerHandler.MarkDealerDebtCollected)
		transactions.POST("/:id/approve", r.ledgerHandler.ApproveTransaction, r.authMiddleware.RequireElevated)
		transactions.POST("/:id/reject", r.ledgerHandler.RejectTransaction, r.authMiddleware.RequireElevated)
		transactions.DELETE("/:id", r.ledgerHandler.DeleteTransaction)
	}

	// Manager surfaces
	approvals := api.Group("/approvals", r.authMiddleware.RequireElevated)
	{
		approvals.GET("", r.dealHandler.ListPendingApprovals)
		approvals.GET("/transactions", r.ledgerHandler.ListPendingTransactions)
		approvals.POST("/customers/:id/approve", r.dealHandler.ApproveCustomer)
		approvals.POST("/customers/:id/reject", r.dealHandler.RejectCustomer)
	}

	api.GET("/monitor/deliveries", r.progressHandler.Monitor, r.authMiddleware.RequireElevated)
	api.PUT("/customers/:id/finance-done", r.ledgerHandler.MarkFinanceDone, r.authMiddleware.RequireElevated)
	api.POST("/admin/repair-assignments", r.customerHandler.RepairAssignedReps)
	api.GET("/admin/duplicate-report", r.customerHandler.ScanDuplicates)
	api.DELETE("/customers/:id", r.customerHandler.DeleteCustomer)

	// Directory and reference data
	directory := api.Group("")
	{
		directory.GET("/employees", r.directoryHandler.ListEmployees)
		directory.GET("/employees/share-targets", r.directoryHandler.ShareTargets)
		directory.GET("/distributors", r.directoryHandler.ListDistributors)
		directory.POST("/distributors", r.directoryHandler.CreateDistributor)
		directory.DELETE("/distributors/:id", r.directoryHandler.DeleteDistributor)
		directory.GET("/car-models", r.directoryHandler.ListCarModels)
		directory.POST("/car-models", r.directoryHandler.CreateCarModel)
		directory.DELETE("/car-models/:id", r.directoryHandler.DeleteCarModel)
		directory.GET("/settings/:key", r.directoryHandler.GetSetting)
		directory.PUT("/settings/:key", r.directoryHandler.PutSetting)
		directory.POST("/delegations", r.directoryHandler.GrantDelegation)
		directory.DELETE("/delegations", r.directoryHandler.RevokeDelegation)
	}
}
