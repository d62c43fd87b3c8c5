package entity

import (
	"time"

	"github.com/google/uuid"
)

// SharePermission is the capability granted by a share or delegation.
type SharePermission string

const (
	PermissionView SharePermission = "view"
	PermissionEdit SharePermission = "edit"
)

// AllowsEdit reports whether the permission covers mutations.
func (p SharePermission) AllowsEdit() bool {
	return p == PermissionEdit
}

// CustomerShare grants one user access to one customer. At most one share
// exists per (customer, user) pair; re-sharing upserts the permission.
type CustomerShare struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	SharedBy   uuid.UUID
	SharedWith uuid.UUID
	Permission SharePermission
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccessDelegation grants a recipient standing access to every customer a
// target user is responsible for, typically an assistant covering a rep.
type AccessDelegation struct {
	ID           uuid.UUID
	GrantorID    uuid.UUID
	RecipientID  uuid.UUID
	TargetUserID uuid.UUID
	AccessLevel  SharePermission
	CreatedAt    time.Time
}
