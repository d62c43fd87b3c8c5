package usecase

import (
	"context"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// DealForm carries the closing details submitted with a win request.
type DealForm struct {
	CarModel        string
	PaymentMethod   string
	PlateType       string
	Revenue         int64
	Distributor     string
	CarAvailability string
	HasAccessories  bool
	Notes           string
}

// PendingApproval is one item in the elevated approval queue.
type PendingApproval struct {
	Customer *entity.Customer
	// Kind is one of "win", "lost", "deal_action", "transfer".
	Kind string
}

// DealUsecase drives the customer status machine and the post-win deal
// lifecycle. Non-elevated actors park changes in pending states; elevated
// actors settle them.
type DealUsecase interface {
	// RequestWin records the deal form. Elevated actors close the deal on
	// the spot ("Chốt đơn"); everyone else moves the customer to the
	// win-pending status ("Chờ duyệt chốt").
	RequestWin(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, form DealForm) error

	// StopCare abandons a lead. Elevated actors land directly on "Đã hủy",
	// everyone else on the lost-pending status. Either way the lead's
	// classification drops to Cool.
	StopCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, reason string) error

	// ReopenCare brings an abandoned customer back to "Tiềm năng".
	ReopenCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error

	// RequestDealAction applies a post-win action (complete, refund, suspend,
	// resume, cancel). Elevated actors settle immediately, others create a
	// pending deal status for approval; cancel is elevated-only and returns
	// the customer to "Tiềm năng". Completion force-marks the delivery
	// checklist.
	RequestDealAction(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, action entity.DealAction, reason string) error

	// ApproveCustomer settles whatever is pending on the customer: a win or
	// lost request, a pending deal action, or a transfer request. Approving a
	// win stamps won_at, opens the delivery progress and books the marketing
	// revenue in one transaction.
	ApproveCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error

	// RejectCustomer rolls the pending request back to its previous state.
	RejectCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, reason string) error

	// ListPendingApprovals returns the approval queue. Elevated only.
	ListPendingApprovals(ctx context.Context, actor *entity.UserProfile) ([]*PendingApproval, error)

	// ChangeSalesRep reassigns the customer to another rep. The target must
	// be within the actor's reach: elevated actors pick anyone active, others
	// their manager, teammates or direct reports.
	ChangeSalesRep(ctx context.Context, actor *entity.UserProfile, customerID, newRepID uuid.UUID) error
}
