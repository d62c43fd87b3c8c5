// Package usecase defines the application's use case interfaces and the
// input/output types shared with the delivery layer.
package usecase

import (
	"context"

	"autocrm/internal/domain/entity"
)

// AccessResult describes what a viewer may do with one customer and through
// which channel the capability was obtained.
type AccessResult struct {
	Permission    entity.SharePermission
	IsElevated    bool
	IsCreator     bool
	IsAssignedRep bool
	ViaShare      bool
	ViaDelegation bool
}

// CanEdit reports whether the resolved capability covers mutations.
func (r *AccessResult) CanEdit() bool {
	return r != nil && r.Permission.AllowsEdit()
}

// AccessUsecase resolves per-customer capabilities. Every other use case
// funnels its permission checks through here so the rules live in one place.
type AccessUsecase interface {
	// Resolve determines the viewer's capability on a customer, walking the
	// grant chain in priority order: elevated role, creator, assigned rep,
	// explicit share, standing delegation. When no channel grants anything
	// the viewer falls back to plain view access; failed grant lookups count
	// as no grant.
	Resolve(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*AccessResult, error)

	// ResolveEdit is Resolve plus an edit requirement. It returns
	// ErrEditDenied when the viewer holds only a view capability.
	ResolveEdit(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*AccessResult, error)
}
