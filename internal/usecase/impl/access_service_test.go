package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccessService(shareRepo *mockShareRepo, delegationRepo *mockDelegationRepo) usecase.AccessUsecase {
	return NewAccessService(AccessServiceParams{
		ShareRepo:      shareRepo,
		DelegationRepo: delegationRepo,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestAccessService_Resolve_ElevatedRole(t *testing.T) {
	t.Parallel()

	svc := newAccessService(&mockShareRepo{}, &mockDelegationRepo{})
	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.IsElevated)
	assert.True(t, result.CanEdit())
}

func TestAccessService_Resolve_Creator(t *testing.T) {
	t.Parallel()

	svc := newAccessService(&mockShareRepo{}, &mockDelegationRepo{})
	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: viewer.ID}

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.IsCreator)
	assert.True(t, result.CanEdit())
}

func TestAccessService_Resolve_AssignedRep(t *testing.T) {
	t.Parallel()

	svc := newAccessService(&mockShareRepo{}, &mockDelegationRepo{})
	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New(), AssignedRepID: &viewer.ID}

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.IsAssignedRep)
	assert.True(t, result.CanEdit())
}

func TestAccessService_Resolve_ViewShare(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	delegationRepo := &mockDelegationRepo{}
	svc := newAccessService(shareRepo, delegationRepo)

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).
		Return(&entity.CustomerShare{Permission: entity.PermissionView}, nil)

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.ViaShare)
	assert.False(t, result.CanEdit())

	_, err = svc.ResolveEdit(context.Background(), viewer, customer)
	assert.ErrorIs(t, err, domainerrors.ErrEditDenied)
}

func TestAccessService_Resolve_MalformedSharePermissionDegradesToView(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	svc := newAccessService(shareRepo, &mockDelegationRepo{})

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).
		Return(&entity.CustomerShare{Permission: entity.SharePermission("owner")}, nil)

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.Equal(t, entity.PermissionView, result.Permission)
}

func TestAccessService_Resolve_DelegationOnAssignedRep(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	delegationRepo := &mockDelegationRepo{}
	svc := newAccessService(shareRepo, delegationRepo)

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	repID := uuid.New()
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New(), AssignedRepID: &repID}

	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).
		Return(nil, repository.ErrShareNotFound)
	delegationRepo.On("FindDelegation", mock.Anything, viewer.ID, customer.CreatorID).
		Return(nil, nil)
	delegationRepo.On("FindDelegation", mock.Anything, viewer.ID, repID).
		Return(&entity.AccessDelegation{AccessLevel: entity.PermissionEdit}, nil)

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.ViaDelegation)
	assert.True(t, result.CanEdit())
}

func TestAccessService_Resolve_NoGrantDefaultsToView(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	delegationRepo := &mockDelegationRepo{}
	svc := newAccessService(shareRepo, delegationRepo)

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).
		Return(nil, repository.ErrShareNotFound)
	delegationRepo.On("FindDelegation", mock.Anything, viewer.ID, customer.CreatorID).
		Return(nil, nil)

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.Equal(t, entity.PermissionView, result.Permission)
	assert.False(t, result.CanEdit())

	// Read access is free, writing still needs an explicit grant.
	_, err = svc.ResolveEdit(context.Background(), viewer, customer)
	assert.ErrorIs(t, err, domainerrors.ErrEditDenied)
}

func TestAccessService_Resolve_LookupErrorsDegradeToView(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	delegationRepo := &mockDelegationRepo{}
	svc := newAccessService(shareRepo, delegationRepo)

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	boom := errors.New("connection reset")
	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).Return(nil, boom)
	delegationRepo.On("FindDelegation", mock.Anything, viewer.ID, customer.CreatorID).
		Return(nil, boom)

	// A broken grant store can only cost the viewer privileges, never grant
	// them and never break reads.
	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.Equal(t, entity.PermissionView, result.Permission)
	assert.False(t, result.CanEdit())
	delegationRepo.AssertExpectations(t)
}

func TestAccessService_Resolve_ShareLookupErrorStillChecksDelegations(t *testing.T) {
	t.Parallel()

	shareRepo := &mockShareRepo{}
	delegationRepo := &mockDelegationRepo{}
	svc := newAccessService(shareRepo, delegationRepo)

	viewer := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), CreatorID: uuid.New()}

	shareRepo.On("FindShare", mock.Anything, customer.ID, viewer.ID).
		Return(nil, errors.New("connection reset"))
	delegationRepo.On("FindDelegation", mock.Anything, viewer.ID, customer.CreatorID).
		Return(&entity.AccessDelegation{AccessLevel: entity.PermissionEdit}, nil)

	result, err := svc.Resolve(context.Background(), viewer, customer)
	require.NoError(t, err)
	assert.True(t, result.ViaDelegation)
	assert.True(t, result.CanEdit())
}
