package usecase

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// LedgerView is the per-deal finance sheet: the derived summary plus the
// raw rows it was projected from.
type LedgerView struct {
	Summary      entity.LedgerSummary
	Transactions []*entity.Transaction
}

// MoneyRequest is the common shape for ledger mutations that create a row.
// IsNewDebt applies to dealer debts only: it grows the deal's revenue
// figures instead of restating money already counted.
type MoneyRequest struct {
	Amount     int64
	Reason     string
	TargetDate *time.Time
	IsNewDebt  bool
}

// LedgerUsecase manages the per-deal finance ledger: money rows, the
// approval queue and the derived summary figures.
type LedgerUsecase interface {
	// GetLedger projects the finance summary for a won customer.
	GetLedger(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*LedgerView, error)

	// RecordActualRevenue adds the amount onto the deal's realized revenue.
	RecordActualRevenue(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, amount int64) error

	// AddIncurredExpense books a cost against the deal, recorded directly
	// without approval.
	AddIncurredExpense(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// RequestDeposit files a customer deposit for approval.
	RequestDeposit(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// RequestExpense files a pure expense for approval.
	RequestExpense(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// RequestAdvance files a cash advance for approval.
	RequestAdvance(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// BorrowLoan files a loan request, enforcing the per-user daily cap.
	BorrowLoan(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// RequestRepayment files a repayment against outstanding advances.
	// Repayments always wait for approval, whoever files them.
	RequestRepayment(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// RequestLoanRepayment files a repayment against an outstanding loan.
	// Same approval rule as RequestRepayment.
	RequestLoanRepayment(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// AddDealerDebt books a receivable from the dealer, recorded directly.
	AddDealerDebt(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req MoneyRequest) error

	// MarkDealerDebtCollected closes out a dealer debt row and books the
	// collected money as a deposit on the order's owner. Elevated only.
	MarkDealerDebtCollected(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error

	// ApproveTransaction settles a pending money row. Elevated only.
	ApproveTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error

	// RejectTransaction declines a pending money row. Elevated only.
	RejectTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID, reason string) error

	// DeleteTransaction removes a money row outright. Elevated only.
	DeleteTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error

	// ListPendingTransactions returns the finance approval queue. Elevated only.
	ListPendingTransactions(ctx context.Context, actor *entity.UserProfile) ([]*entity.Transaction, error)

	// MarkFinanceDone flags the deal's paperwork as settled. Elevated only.
	MarkFinanceDone(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, done bool) error
}
