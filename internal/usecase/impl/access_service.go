// Package impl contains the use case implementations wired together by Fx.
package impl

import (
	"context"
	"log/slog"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type accessService struct {
	shareRepo      repository.ShareRepository
	delegationRepo repository.DelegationRepository
	logger         *slog.Logger
}

// AccessServiceParams holds dependencies for AccessService, injected by Fx.
type AccessServiceParams struct {
	fx.In

	ShareRepo      repository.ShareRepository
	DelegationRepo repository.DelegationRepository
	Logger         *slog.Logger
}

// NewAccessService creates a new access resolution service instance
func NewAccessService(params AccessServiceParams) usecase.AccessUsecase {
	return &accessService{
		shareRepo:      params.ShareRepo,
		delegationRepo: params.DelegationRepo,
		logger:         params.Logger,
	}
}

// Resolve walks the grant chain in priority order and stops at the first
// channel that yields a capability. A failed grant lookup counts as no
// grant, and with no grant at all the viewer still gets read access:
// resolution only ever decides between view and edit.
func (s *accessService) Resolve(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*usecase.AccessResult, error) {
	if viewer == nil || customer == nil {
		return nil, domainerrors.ErrAccessDenied
	}

	if viewer.Role.IsElevated() {
		return &usecase.AccessResult{Permission: entity.PermissionEdit, IsElevated: true}, nil
	}

	if customer.CreatorID == viewer.ID {
		return &usecase.AccessResult{Permission: entity.PermissionEdit, IsCreator: true}, nil
	}

	if customer.IsAssignedTo(viewer.ID) {
		return &usecase.AccessResult{Permission: entity.PermissionEdit, IsAssignedRep: true}, nil
	}

	share, err := s.shareRepo.FindShare(ctx, customer.ID, viewer.ID)
	if err != nil && !errors.Is(err, repository.ErrShareNotFound) {
		s.logger.Warn("share lookup failed, treating as no grant",
			slog.String("customer_id", customer.ID.String()),
			slog.Any("error", err))
		share = nil
	}
	if share != nil {
		return &usecase.AccessResult{Permission: clampPermission(share.Permission), ViaShare: true}, nil
	}

	if result := s.resolveDelegation(ctx, viewer, customer); result != nil {
		return result, nil
	}

	return &usecase.AccessResult{Permission: entity.PermissionView}, nil
}

// ResolveEdit is Resolve with an edit requirement on top.
func (s *accessService) ResolveEdit(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*usecase.AccessResult, error) {
	result, err := s.Resolve(ctx, viewer, customer)
	if err != nil {
		return nil, err
	}
	if !result.CanEdit() {
		return nil, domainerrors.ErrEditDenied
	}
	return result, nil
}

// resolveDelegation checks standing delegations against both the customer's
// creator and its assigned rep. Lookup failures count as no delegation.
func (s *accessService) resolveDelegation(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) *usecase.AccessResult {
	delegation, err := s.delegationRepo.FindDelegation(ctx, viewer.ID, customer.CreatorID)
	if err != nil {
		s.logger.Warn("creator delegation lookup failed, treating as no grant",
			slog.String("customer_id", customer.ID.String()),
			slog.Any("error", err))
		delegation = nil
	}
	if delegation == nil && customer.AssignedRepID != nil && *customer.AssignedRepID != customer.CreatorID {
		delegation, err = s.delegationRepo.FindDelegation(ctx, viewer.ID, *customer.AssignedRepID)
		if err != nil {
			s.logger.Warn("assigned rep delegation lookup failed, treating as no grant",
				slog.String("customer_id", customer.ID.String()),
				slog.Any("error", err))
			delegation = nil
		}
	}
	if delegation == nil {
		return nil
	}

	return &usecase.AccessResult{Permission: clampPermission(delegation.AccessLevel), ViaDelegation: true}
}

// clampPermission maps anything that is not an explicit edit grant to view.
func clampPermission(p entity.SharePermission) entity.SharePermission {
	if p == entity.PermissionEdit {
		return entity.PermissionEdit
	}
	return entity.PermissionView
}
