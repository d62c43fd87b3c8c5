package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission tier of an employee account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMod      Role = "mod"
	RoleEmployee Role = "employee"
)

// IsElevated reports whether the role bypasses per-customer access checks
// and may resolve approval requests.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleMod
}

// ProfileStatus marks whether an account may sign in.
type ProfileStatus string

const (
	ProfileActive   ProfileStatus = "active"
	ProfileInactive ProfileStatus = "inactive"
)

// UserProfile is an employee account in the sales organisation.
type UserProfile struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
	Status       ProfileStatus
	ManagerID    *uuid.UUID // team lead this rep reports to
	KPITarget    int        // monthly deal target
	MemberTier   int        // seniority tier used for commission bands
	IsLockedAdd  bool       // blocked from creating new leads
	IsLockedView bool       // blocked from browsing the shared pool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanSignIn reports whether the account is active.
func (p *UserProfile) CanSignIn() bool {
	return p.Status == ProfileActive
}
