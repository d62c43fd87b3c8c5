package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"autocrm/internal/domain/constants"
)

// TransactionType classifies a ledger row. Money direction and approval
// rules follow from the type.
type TransactionType string

const (
	TxnRevenue         TransactionType = "revenue"          // declared deal revenue, MKT-source deals only
	TxnIncurredExpense TransactionType = "incurred_expense" // cost deducted from declared revenue
	TxnDeposit         TransactionType = "deposit"          // customer money handed to the company
	TxnExpense         TransactionType = "expense"          // rep spend on behalf of the deal
	TxnAdvance         TransactionType = "advance"          // company money advanced to the rep
	TxnRepayment       TransactionType = "repayment"        // rep returning an advance
	TxnLoan            TransactionType = "loan"             // short-term personal loan to the rep
	TxnLoanRepayment   TransactionType = "loan_repayment"   // rep returning a loan
	TxnDealerDebt      TransactionType = "dealer_debt"      // receivable owed by a distributor
)

// TransactionStatus is the approval state of a ledger row.
type TransactionStatus string

const (
	TxnPending  TransactionStatus = "pending"
	TxnApproved TransactionStatus = "approved"
	TxnRejected TransactionStatus = "rejected"
)

// Transaction is one immutable row of a deal's money trail. Rows are never
// edited after approval; corrections are new rows.
type Transaction struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	CustomerName string // denormalized for approval queues
	UserID       uuid.UUID
	UserName     string
	Type         TransactionType
	Amount       int64 // VND, whole đồng
	Reason       string
	Status       TransactionStatus
	TargetDate   *time.Time // promised settlement date for loans and dealer debts
	ApprovedBy   *uuid.UUID
	CreatedAt    time.Time
}

// NeedsApproval reports whether this type enters the ledger as pending.
// Revenue, incurred expenses and dealer debts are recorded directly.
func (t TransactionType) NeedsApproval() bool {
	switch t {
	case TxnRevenue, TxnIncurredExpense, TxnDealerDebt:
		return false
	default:
		return true
	}
}

// AlwaysPending reports whether this type stays pending regardless of who
// records it. Repayments must be counter-confirmed by an approver, so the
// elevated-actor shortcut does not apply to them.
func (t TransactionType) AlwaysPending() bool {
	switch t {
	case TxnRepayment, TxnLoanRepayment:
		return true
	default:
		return false
	}
}

// IsDebtCollected reports whether a dealer debt row carries the collected marker.
func (t *Transaction) IsDebtCollected() bool {
	return strings.Contains(t.Reason, strings.TrimSpace(constants.PaidMarker))
}

// MarkDebtCollected appends the collected marker to the reason. Idempotent.
func (t *Transaction) MarkDebtCollected() {
	if !t.IsDebtCollected() {
		t.Reason += constants.PaidMarker
	}
}
