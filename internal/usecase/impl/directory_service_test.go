package impl

import (
	"context"
	"testing"

	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type directoryServiceMocks struct {
	profileRepo    *mockProfileRepo
	referenceRepo  *mockReferenceRepo
	delegationRepo *mockDelegationRepo
}

func newDirectoryService(m *directoryServiceMocks) usecase.DirectoryUsecase {
	return NewDirectoryService(DirectoryServiceParams{
		ProfileRepo:    m.profileRepo,
		ReferenceRepo:  m.referenceRepo,
		DelegationRepo: m.delegationRepo,
	})
}

func newDirectoryServiceMocks() *directoryServiceMocks {
	return &directoryServiceMocks{
		profileRepo:    &mockProfileRepo{},
		referenceRepo:  &mockReferenceRepo{},
		delegationRepo: &mockDelegationRepo{},
	}
}

func TestDirectoryService_ListEmployees_EmployeeSeesOnlyTheirTeam(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	managerID := uuid.New()
	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee, ManagerID: &managerID, Status: entity.ProfileActive}
	manager := &entity.UserProfile{ID: managerID, FullName: "Quản lý", Status: entity.ProfileActive}
	teammate := &entity.UserProfile{ID: uuid.New(), ManagerID: &managerID, Status: entity.ProfileActive}
	stranger := &entity.UserProfile{ID: uuid.New(), Status: entity.ProfileActive}

	m.profileRepo.On("ListActiveProfiles", mock.Anything).
		Return([]*entity.UserProfile{actor, manager, teammate, stranger}, nil)

	profiles, err := svc.ListEmployees(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	ids := map[uuid.UUID]bool{}
	for _, p := range profiles {
		ids[p.ID] = true
		assert.Empty(t, p.PasswordHash)
	}
	assert.True(t, ids[actor.ID])
	assert.True(t, ids[manager.ID])
	assert.True(t, ids[teammate.ID])
	assert.False(t, ids[stranger.ID])
}

func TestDirectoryService_ShareTargets_ExcludesSelf(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	admin := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleAdmin, Status: entity.ProfileActive}
	other := &entity.UserProfile{ID: uuid.New(), Status: entity.ProfileActive}

	m.profileRepo.On("ListActiveProfiles", mock.Anything).
		Return([]*entity.UserProfile{admin, other}, nil)

	targets, err := svc.ShareTargets(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, other.ID, targets[0].ID)
}

func TestDirectoryService_ListCarModels_FallsBackToDefaultLineup(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	m.referenceRepo.On("ListCarModels", mock.Anything).Return([]*entity.CarModel{}, nil)

	models, err := svc.ListCarModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, len(entity.DefaultCarModels))
	assert.Equal(t, "VF 3", models[0].Name)
}

func TestDirectoryService_CreateDistributor_ElevatedOnly(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	rep := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	_, err := svc.CreateDistributor(context.Background(), rep, "Đại lý A")
	assert.ErrorIs(t, err, domainerrors.ErrElevatedOnly)

	mod := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	m.referenceRepo.On("CreateDistributor", mock.Anything, mock.MatchedBy(func(d *entity.Distributor) bool {
		return d.Name == "Đại lý A"
	})).Return(nil)

	distributor, err := svc.CreateDistributor(context.Background(), mod, "  Đại lý A  ")
	require.NoError(t, err)
	assert.Equal(t, "Đại lý A", distributor.Name)
}

func TestDirectoryService_GetSetting_MissingKeyIsEmpty(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	m.referenceRepo.On("GetSetting", mock.Anything, "greeting").
		Return(nil, repository.ErrSettingNotFound)

	value, err := svc.GetSetting(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestDirectoryService_GrantDelegation_EmployeeDelegatesOwnBookOnly(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	recipient := &entity.UserProfile{ID: uuid.New(), Status: entity.ProfileActive}

	err := svc.GrantDelegation(context.Background(), actor, recipient.ID, uuid.New(), entity.PermissionView)
	assert.ErrorIs(t, err, domainerrors.ErrElevatedOnly)

	m.profileRepo.On("FindProfileByID", mock.Anything, recipient.ID).Return(recipient, nil)
	m.delegationRepo.On("CreateDelegation", mock.Anything, mock.MatchedBy(func(d *entity.AccessDelegation) bool {
		return d.RecipientID == recipient.ID && d.TargetUserID == actor.ID && d.AccessLevel == entity.PermissionView
	})).Return(nil)

	require.NoError(t, svc.GrantDelegation(context.Background(), actor, recipient.ID, actor.ID, entity.PermissionView))
	m.delegationRepo.AssertExpectations(t)
}

func TestDirectoryService_RevokeDelegation_StrangerDenied(t *testing.T) {
	t.Parallel()

	m := newDirectoryServiceMocks()
	svc := newDirectoryService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	recipientID, targetID := uuid.New(), uuid.New()
	delegation := &entity.AccessDelegation{
		ID:           uuid.New(),
		GrantorID:    uuid.New(),
		RecipientID:  recipientID,
		TargetUserID: targetID,
	}

	m.delegationRepo.On("FindDelegation", mock.Anything, recipientID, targetID).Return(delegation, nil)

	err := svc.RevokeDelegation(context.Background(), actor, recipientID, targetID)
	assert.ErrorIs(t, err, domainerrors.ErrElevatedOnly)
}
