package entity

// DealStatus tracks the post-win settlement state of a deal, separate from
// the customer lifecycle. Terminal moves go through a pending state that an
// admin or mod resolves.
type DealStatus string

const (
	DealProcessing       DealStatus = "processing"
	DealCompleted        DealStatus = "completed"
	DealCompletedPending DealStatus = "completed_pending"
	DealRefunded         DealStatus = "refunded"
	DealRefundedPending  DealStatus = "refund_pending"
	DealSuspended        DealStatus = "suspended"
	DealSuspendedPending DealStatus = "suspended_pending"
)

// DealAction is a rep-initiated request against a processing deal.
type DealAction string

const (
	DealActionComplete DealAction = "complete"
	DealActionRefund   DealAction = "refund"
	DealActionSuspend  DealAction = "suspend"
	DealActionResume   DealAction = "resume"
	DealActionCancel   DealAction = "cancel"
)

// IsPending reports whether the deal awaits an approval decision.
func (s DealStatus) IsPending() bool {
	switch s {
	case DealCompletedPending, DealRefundedPending, DealSuspendedPending:
		return true
	default:
		return false
	}
}

// Resolve returns the settled status a pending state lands on when approved.
// The second return is false when the status is not pending.
func (s DealStatus) Resolve() (DealStatus, bool) {
	switch s {
	case DealCompletedPending:
		return DealCompleted, true
	case DealRefundedPending:
		return DealRefunded, true
	case DealSuspendedPending:
		return DealSuspended, true
	default:
		return s, false
	}
}

// Apply maps a rep action on the current status to the pending state it
// enters, or the direct state for resume. The second return is false when
// the action is not allowed from the current status. Cancel is handled at
// the service layer because it leaves the deal lifecycle entirely.
func (s DealStatus) Apply(action DealAction) (DealStatus, bool) {
	switch action {
	case DealActionComplete:
		if s == DealProcessing {
			return DealCompletedPending, true
		}
	case DealActionRefund:
		if s == DealProcessing || s == DealSuspended {
			return DealRefundedPending, true
		}
	case DealActionSuspend:
		if s == DealProcessing {
			return DealSuspendedPending, true
		}
	case DealActionResume:
		// Suspended, refunded, and completed deals can all be brought back
		// into processing.
		if s == DealSuspended || s == DealRefunded || s == DealCompleted {
			return DealProcessing, true
		}
	}

	return s, false
}
