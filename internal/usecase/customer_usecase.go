package usecase

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCustomerInput carries the lead intake form.
type CreateCustomerInput struct {
	Name           string
	Phone          string
	SecondaryPhone string
	Email          string
	Location       string
	Source         string
	Interest       string
	Notes          string
	AssignedRepID  *uuid.UUID
}

// DuplicateCustomer identifies the existing record that blocked an intake.
type DuplicateCustomer struct {
	CustomerID uuid.UUID
	OwnerID    *uuid.UUID
	OwnerName  string
}

// CreateCustomerOutput returns either the created customer or, on a phone
// collision, the duplicate the caller may request a transfer for.
type CreateCustomerOutput struct {
	Customer  *entity.Customer
	Duplicate *DuplicateCustomer
}

// UpdateCustomerInput holds partial profile edits. Nil fields are untouched.
type UpdateCustomerInput struct {
	Name           *string
	SecondaryPhone *string
	Email          *string
	Location       *string
	Interest       *string
	Notes          *string
}

// ListCustomersInput narrows the customer list.
type ListCustomersInput struct {
	Statuses []entity.CustomerStatus
	Search   string
	Page     int
	PageSize int
}

// DuplicateGroup collects the customers sharing one normalized phone.
type DuplicateGroup struct {
	Phone     string
	Customers []*entity.Customer
}

// CustomerDetail bundles a customer with the viewer's resolved capability
// and the interaction history.
type CustomerDetail struct {
	Customer     *entity.Customer
	Access       *AccessResult
	Interactions []*entity.Interaction
}

// CustomerUsecase covers lead intake, care state, sharing and the customer
// level housekeeping operations.
type CustomerUsecase interface {
	// CreateCustomer normalizes and validates the phone number, persists the
	// lead and publishes an intake event. On a duplicate phone it returns the
	// existing record's identity instead of creating anything.
	CreateCustomer(ctx context.Context, actor *entity.UserProfile, input CreateCustomerInput) (*CreateCustomerOutput, error)

	// GetCustomer loads one customer with interactions, enforcing view access.
	GetCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*CustomerDetail, error)

	// ListCustomers returns the customers visible to the actor. Elevated roles
	// see everything, everyone else only what they created, are assigned to,
	// or were granted.
	ListCustomers(ctx context.Context, actor *entity.UserProfile, input ListCustomersInput) ([]*entity.Customer, error)

	// UpdateCustomer applies partial profile edits.
	UpdateCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, input UpdateCustomerInput) (*entity.Customer, error)

	// AcknowledgeCustomer moves a fresh lead from "Mới" to "Tiềm năng".
	AcknowledgeCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error

	// SetClassification updates the Hot/Warm/Cool temperature.
	SetClassification(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, classification entity.Classification) error

	// SetRecareDate schedules or clears the next follow-up date.
	SetRecareDate(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, recareDate *time.Time) error

	// SetSpecialCare toggles the special-care flag. Enabling it drops the
	// long-term flag since the two are mutually exclusive.
	SetSpecialCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, enabled bool) error

	// SetLongTerm toggles long-term care. Enabling requires a return date at
	// least ten days out and forces the classification to Cool.
	SetLongTerm(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, enabled bool, returnDate *time.Time) error

	// AddNote appends a free-text interaction to the customer's history.
	AddNote(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, content string) (*entity.Interaction, error)

	// ShareCustomer grants or updates another user's capability on a customer.
	ShareCustomer(ctx context.Context, actor *entity.UserProfile, customerID, targetUserID uuid.UUID, permission entity.SharePermission) error

	// RevokeShare removes a previously granted share.
	RevokeShare(ctx context.Context, actor *entity.UserProfile, customerID, targetUserID uuid.UUID) error

	// ListShares returns the shares on a customer, visible to whoever can
	// edit the customer.
	ListShares(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) ([]*entity.CustomerShare, error)

	// RequestTransfer flags an existing customer for hand-over to the actor.
	// An elevated approver settles the request later.
	RequestTransfer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error

	// ContactQR renders a vCard QR for the customer's contact card.
	ContactQR(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) ([]byte, error)

	// DeleteCustomer removes a customer and every dependent row. Admin only.
	DeleteCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error

	// RepairAssignedReps backfills assigned_rep_id on legacy rows by matching
	// the free-text sales rep name against active profiles. Admin only.
	// Returns the number of rows repaired.
	RepairAssignedReps(ctx context.Context, actor *entity.UserProfile) (int, error)

	// ScanDuplicates reports groups of customers sharing a normalized phone,
	// for the elevated-only data hygiene review.
	ScanDuplicates(ctx context.Context, actor *entity.UserProfile) ([]*DuplicateGroup, error)
}
