// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomerStatus is the sales lifecycle state. Values are the Vietnamese
// labels the sales team reads, persisted verbatim.
type CustomerStatus string

const (
	StatusNew         CustomerStatus = "Mới"
	StatusPotential   CustomerStatus = "Tiềm năng"
	StatusWonPending  CustomerStatus = "Chờ duyệt chốt"
	StatusWon         CustomerStatus = "Chốt đơn"
	StatusLostPending CustomerStatus = "Chờ duyệt hủy"
	StatusLost        CustomerStatus = "Đã hủy"
)

// statusTransitions is the full lifecycle graph. Any move not listed here
// is rejected, no matter who asks.
var statusTransitions = map[CustomerStatus][]CustomerStatus{
	StatusNew:         {StatusPotential, StatusWonPending, StatusLostPending},
	StatusPotential:   {StatusWonPending, StatusLostPending},
	StatusWonPending:  {StatusWon, StatusPotential},
	StatusLostPending: {StatusLost, StatusPotential},
	StatusWon:         {StatusLostPending},
	StatusLost:        {StatusPotential},
}

// CanTransition reports whether the lifecycle allows moving to the target status.
func (s CustomerStatus) CanTransition(to CustomerStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == to {
			return true
		}
	}

	return false
}

// IsPendingApproval reports whether the customer sits in a state that only
// an admin or mod may resolve.
func (s CustomerStatus) IsPendingApproval() bool {
	return s == StatusWonPending || s == StatusLostPending
}

// Classification is the rep's temperature read on a lead.
type Classification string

const (
	ClassificationHot  Classification = "Hot"
	ClassificationWarm Classification = "Warm"
	ClassificationCool Classification = "Cool"
)

// DealDetails captures the commercial terms of a won (or closing) deal.
// Stored as a JSONB document alongside the customer row.
type DealDetails struct {
	CarModel        string `json:"car_model"`
	PaymentMethod   string `json:"payment_method"` // "Tiền mặt" or "Ngân hàng"
	PlateType       string `json:"plate_type,omitempty"`
	Revenue         int64  `json:"revenue"`
	ActualRevenue   int64  `json:"actual_revenue"`
	Distributor     string `json:"distributor,omitempty"`
	CarAvailability string `json:"car_availability,omitempty"` // "Sẵn xe" or "Đợi xe"
	HasAccessories  bool   `json:"has_accessories"`
	Notes           string `json:"notes,omitempty"`
}

// Payment methods referenced by the delivery checklist.
const (
	PaymentCash = "Tiền mặt"
	PaymentBank = "Ngân hàng"
)

// Car availability values used by the delivery monitor.
const (
	CarInStock = "Sẵn xe"
	CarWaiting = "Đợi xe"
)

// Customer is a sales lead and, once won, the anchor for the deal's
// finance ledger and delivery checklist.
type Customer struct {
	ID                   uuid.UUID
	Name                 string
	Phone                string // normalized, digits only with leading zero
	SecondaryPhone       string
	Email                string
	Location             string
	Source               string // lead channel, e.g. "MKT Group", "Tự khai thác"
	Interest             string // car model of interest at intake
	Status               CustomerStatus
	Classification       Classification
	CreatorID            uuid.UUID
	AssignedRepID        *uuid.UUID // resolved FK to the responsible rep
	SalesRep             string     // display name kept for legacy rows and exports
	Notes                string
	RecareDate           *time.Time // next contact date, date precision
	IsSpecialCare        bool
	SpecialCareStartDate *time.Time
	IsLongTerm           bool
	IsAcknowledged       bool
	PendingTransferTo    *uuid.UUID // set while a duplicate-phone transfer awaits approval
	StopReason           string
	DealStatus           DealStatus // empty until the first deal action
	DealDetails          *DealDetails
	DeliveryProgress     DeliveryProgress
	WonAt                *time.Time
	FinanceDone          bool
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Access metadata resolved per viewer, never persisted.
	SharedPermission SharePermission
	IsDelegated      bool
}

// IsAssignedTo reports whether the given user is the responsible rep.
func (c *Customer) IsAssignedTo(userID uuid.UUID) bool {
	return c.AssignedRepID != nil && *c.AssignedRepID == userID
}

// EnableSpecialCare marks the customer for daily follow-up. Special care
// and long-term care are mutually exclusive.
func (c *Customer) EnableSpecialCare(now time.Time) {
	c.IsSpecialCare = true
	c.SpecialCareStartDate = &now
	c.IsLongTerm = false
}

// DisableSpecialCare clears the daily follow-up flag.
func (c *Customer) DisableSpecialCare() {
	c.IsSpecialCare = false
	c.SpecialCareStartDate = nil
}

// EnableLongTerm parks the customer for slow-burn care with a mandatory
// return date. Forces the classification to Cool and clears special care.
func (c *Customer) EnableLongTerm(returnDate time.Time) {
	c.IsLongTerm = true
	c.RecareDate = &returnDate
	c.Classification = ClassificationCool
	c.IsSpecialCare = false
	c.SpecialCareStartDate = nil
}

// DisableLongTerm returns the customer to the regular care pool.
func (c *Customer) DisableLongTerm() {
	c.IsLongTerm = false
	c.RecareDate = nil
}

// NormalizeCareFlags repairs rows that violate the care invariants, such
// as legacy imports flagged long-term without a return date. It reports
// whether anything changed so callers can persist the fix.
func (c *Customer) NormalizeCareFlags() bool {
	changed := false
	if c.IsLongTerm && c.RecareDate == nil {
		c.IsLongTerm = false
		changed = true
	}
	if c.IsLongTerm && c.IsSpecialCare {
		c.IsSpecialCare = false
		c.SpecialCareStartDate = nil
		changed = true
	}
	if !c.IsSpecialCare && c.SpecialCareStartDate != nil {
		c.SpecialCareStartDate = nil
		changed = true
	}

	return changed
}

// RecareDue reports whether the recare date has arrived or passed.
func (c *Customer) RecareDue(today time.Time) bool {
	if c.RecareDate == nil {
		return false
	}

	return !c.RecareDate.After(today)
}
