package entity

import (
	"math"
	"time"

	domainerrors "autocrm/internal/domain/errors"
)

// DeliveryStep is one item of the post-win handover checklist.
type DeliveryStep struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	BankOnly bool   `json:"-"` // applies only when the deal pays through a bank
}

// deliverySteps is the canonical checklist order. The order is contractual:
// completion must move strictly forward through it.
var deliverySteps = []DeliveryStep{
	{Key: "deposited", Label: "Đặt cọc"},
	{Key: "contract_signed", Label: "Ký hợp đồng"},
	{Key: "bank_approved", Label: "Ngân hàng duyệt hồ sơ", BankOnly: true},
	{Key: "payment_invoice", Label: "Thanh toán"},
	{Key: "invoiced", Label: "Xuất hóa đơn"},
	{Key: "plate_registration", Label: "Đăng ký biển số"},
	{Key: "accessories_pdi", Label: "Lắp phụ kiện & PDI"},
	{Key: "handover", Label: "Giao xe"},
	{Key: "collection_return", Label: "Thu hồ sơ & hoàn tất"},
	{Key: "money_recovered", Label: "Thu hồi tiền về công ty"},
}

// ApplicableSteps returns the checklist for a deal. Cash deals skip the
// bank approval step entirely.
func ApplicableSteps(details *DealDetails) []DeliveryStep {
	bank := details != nil && details.PaymentMethod == PaymentBank
	steps := make([]DeliveryStep, 0, len(deliverySteps))
	for _, step := range deliverySteps {
		if step.BankOnly && !bank {
			continue
		}
		steps = append(steps, step)
	}

	return steps
}

// ProgressStep is the stored state of one checklist item. The timestamp
// records the first completion and survives later unchecks.
type ProgressStep struct {
	Completed bool       `json:"completed"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// DeliveryProgress maps step keys to their stored state.
type DeliveryProgress map[string]ProgressStep

// Percent returns the rounded completion percentage over applicable steps.
func (p DeliveryProgress) Percent(details *DealDetails) int {
	steps := ApplicableSteps(details)
	if len(steps) == 0 {
		return 0
	}

	done := 0
	for _, step := range steps {
		if p[step.Key].Completed {
			done++
		}
	}

	return int(math.Round(float64(done) / float64(len(steps)) * 100))
}

// Toggle flips one checklist step. Completion must move forward: a step can
// be checked only when everything before it is checked, and unchecked only
// when everything after it is unchecked. The first completion stamps the
// step; the stamp is kept on later unchecks.
func (p DeliveryProgress) Toggle(details *DealDetails, key string, now time.Time) error {
	steps := ApplicableSteps(details)
	idx := -1
	for i, step := range steps {
		if step.Key == key {
			idx = i

			break
		}
	}
	if idx == -1 {
		for _, step := range deliverySteps {
			if step.Key == key {
				return domainerrors.ErrStepNotApplicable
			}
		}

		return domainerrors.ErrUnknownProgressStep
	}

	current := p[key]
	if current.Completed {
		for _, later := range steps[idx+1:] {
			if p[later.Key].Completed {
				return domainerrors.ErrStepOrderViolated
			}
		}
		current.Completed = false
		p[key] = current

		return nil
	}

	for _, earlier := range steps[:idx] {
		if !p[earlier.Key].Completed {
			return domainerrors.ErrStepOrderViolated
		}
	}
	current.Completed = true
	if current.Timestamp == nil {
		current.Timestamp = &now
	}
	p[key] = current

	return nil
}

// ForceComplete marks every applicable step as done. Steps already stamped
// keep their original timestamp; the rest are stamped with now. Used when a
// deal settles as completed so the checklist cannot lag behind the deal.
func (p DeliveryProgress) ForceComplete(details *DealDetails, now time.Time) {
	for _, step := range ApplicableSteps(details) {
		current := p[step.Key]
		current.Completed = true
		if current.Timestamp == nil {
			current.Timestamp = &now
		}
		p[step.Key] = current
	}
}

// EarliestCompletedAt returns the oldest timestamp among currently completed
// steps, or nil when no step is completed. Unchecked steps keep their stamp
// for audit but do not anchor delivery aging.
func (p DeliveryProgress) EarliestCompletedAt() *time.Time {
	var earliest *time.Time
	for _, step := range p {
		if !step.Completed || step.Timestamp == nil {
			continue
		}
		if earliest == nil || step.Timestamp.Before(*earliest) {
			ts := *step.Timestamp
			earliest = &ts
		}
	}

	return earliest
}

// DeliveryReferenceDate is the anchor for delivery aging: the win time when
// known, otherwise the first checklist activity, otherwise intake.
func (c *Customer) DeliveryReferenceDate() time.Time {
	if c.WonAt != nil {
		return *c.WonAt
	}
	if earliest := c.DeliveryProgress.EarliestCompletedAt(); earliest != nil {
		return *earliest
	}

	return c.CreatedAt
}

// DeliveryDaysElapsed counts full days since the reference date.
func (c *Customer) DeliveryDaysElapsed(now time.Time) int {
	elapsed := now.Sub(c.DeliveryReferenceDate())
	if elapsed < 0 {
		return 0
	}

	return int(elapsed.Hours() / 24)
}

// IsAwaitingStock reports whether the deal is parked until a car arrives.
func (c *Customer) IsAwaitingStock() bool {
	return c.DealDetails != nil && c.DealDetails.CarAvailability == CarWaiting
}
