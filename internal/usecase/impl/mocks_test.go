package impl

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"
	"autocrm/internal/domain/repository"
	"autocrm/internal/domain/service"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-rolled testify doubles for the repository and service interfaces.

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) FindCustomerByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	customer, _ := args.Get(0).(*entity.Customer)
	return customer, args.Error(1)
}

func (m *mockCustomerRepo) FindCustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	args := m.Called(ctx, phone)
	customer, _ := args.Get(0).(*entity.Customer)
	return customer, args.Error(1)
}

func (m *mockCustomerRepo) ListCustomers(ctx context.Context, filter repository.CustomerListFilter) ([]*entity.Customer, error) {
	args := m.Called(ctx, filter)
	customers, _ := args.Get(0).([]*entity.Customer)
	return customers, args.Error(1)
}

func (m *mockCustomerRepo) ListWonCustomers(ctx context.Context) ([]*entity.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]*entity.Customer)
	return customers, args.Error(1)
}

func (m *mockCustomerRepo) ListPendingApprovals(ctx context.Context) ([]*entity.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]*entity.Customer)
	return customers, args.Error(1)
}

func (m *mockCustomerRepo) ListCustomersWithoutAssignedRep(ctx context.Context) ([]*entity.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]*entity.Customer)
	return customers, args.Error(1)
}

func (m *mockCustomerRepo) SaveCustomer(ctx context.Context, customer *entity.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) UpdateWonAt(ctx context.Context, id uuid.UUID, wonAt time.Time) error {
	return m.Called(ctx, id, wonAt).Error(0)
}

func (m *mockCustomerRepo) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockInteractionRepo struct{ mock.Mock }

func (m *mockInteractionRepo) CreateInteraction(ctx context.Context, interaction *entity.Interaction) error {
	return m.Called(ctx, interaction).Error(0)
}

func (m *mockInteractionRepo) ListInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Interaction, error) {
	args := m.Called(ctx, customerID)
	interactions, _ := args.Get(0).([]*entity.Interaction)
	return interactions, args.Error(1)
}

func (m *mockInteractionRepo) DeleteInteractionsByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return m.Called(ctx, customerID).Error(0)
}

type mockTransactionRepo struct{ mock.Mock }

func (m *mockTransactionRepo) CreateTransaction(ctx context.Context, txn *entity.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *mockTransactionRepo) FindTransactionByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	txn, _ := args.Get(0).(*entity.Transaction)
	return txn, args.Error(1)
}

func (m *mockTransactionRepo) ListTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Transaction, error) {
	args := m.Called(ctx, customerID)
	txns, _ := args.Get(0).([]*entity.Transaction)
	return txns, args.Error(1)
}

func (m *mockTransactionRepo) ListPendingTransactions(ctx context.Context) ([]*entity.Transaction, error) {
	args := m.Called(ctx)
	txns, _ := args.Get(0).([]*entity.Transaction)
	return txns, args.Error(1)
}

func (m *mockTransactionRepo) SumLoansOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(ctx, userID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionRepo) SaveTransaction(ctx context.Context, txn *entity.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *mockTransactionRepo) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTransactionRepo) DeleteTransactionsByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return m.Called(ctx, customerID).Error(0)
}

type mockShareRepo struct{ mock.Mock }

func (m *mockShareRepo) UpsertShare(ctx context.Context, share *entity.CustomerShare) error {
	return m.Called(ctx, share).Error(0)
}

func (m *mockShareRepo) FindShare(ctx context.Context, customerID, userID uuid.UUID) (*entity.CustomerShare, error) {
	args := m.Called(ctx, customerID, userID)
	share, _ := args.Get(0).(*entity.CustomerShare)
	return share, args.Error(1)
}

func (m *mockShareRepo) ListSharesByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CustomerShare, error) {
	args := m.Called(ctx, customerID)
	shares, _ := args.Get(0).([]*entity.CustomerShare)
	return shares, args.Error(1)
}

func (m *mockShareRepo) DeleteShare(ctx context.Context, customerID, userID uuid.UUID) error {
	return m.Called(ctx, customerID, userID).Error(0)
}

func (m *mockShareRepo) DeleteSharesByCustomer(ctx context.Context, customerID uuid.UUID) error {
	return m.Called(ctx, customerID).Error(0)
}

type mockDelegationRepo struct{ mock.Mock }

func (m *mockDelegationRepo) FindDelegation(ctx context.Context, recipientID, targetUserID uuid.UUID) (*entity.AccessDelegation, error) {
	args := m.Called(ctx, recipientID, targetUserID)
	delegation, _ := args.Get(0).(*entity.AccessDelegation)
	return delegation, args.Error(1)
}

func (m *mockDelegationRepo) CreateDelegation(ctx context.Context, delegation *entity.AccessDelegation) error {
	return m.Called(ctx, delegation).Error(0)
}

func (m *mockDelegationRepo) DeleteDelegation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDelegationRepo) ListDelegationsForRecipient(ctx context.Context, recipientID uuid.UUID) ([]*entity.AccessDelegation, error) {
	args := m.Called(ctx, recipientID)
	delegations, _ := args.Get(0).([]*entity.AccessDelegation)
	return delegations, args.Error(1)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) FindProfileByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	args := m.Called(ctx, id)
	profile, _ := args.Get(0).(*entity.UserProfile)
	return profile, args.Error(1)
}

func (m *mockProfileRepo) FindProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	args := m.Called(ctx, email)
	profile, _ := args.Get(0).(*entity.UserProfile)
	return profile, args.Error(1)
}

func (m *mockProfileRepo) ListActiveProfiles(ctx context.Context) ([]*entity.UserProfile, error) {
	args := m.Called(ctx)
	profiles, _ := args.Get(0).([]*entity.UserProfile)
	return profiles, args.Error(1)
}

func (m *mockProfileRepo) ListProfilesByManager(ctx context.Context, managerID uuid.UUID) ([]*entity.UserProfile, error) {
	args := m.Called(ctx, managerID)
	profiles, _ := args.Get(0).([]*entity.UserProfile)
	return profiles, args.Error(1)
}

type mockReferenceRepo struct{ mock.Mock }

func (m *mockReferenceRepo) ListDistributors(ctx context.Context) ([]*entity.Distributor, error) {
	args := m.Called(ctx)
	distributors, _ := args.Get(0).([]*entity.Distributor)
	return distributors, args.Error(1)
}

func (m *mockReferenceRepo) CreateDistributor(ctx context.Context, distributor *entity.Distributor) error {
	return m.Called(ctx, distributor).Error(0)
}

func (m *mockReferenceRepo) DeleteDistributor(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReferenceRepo) ListCarModels(ctx context.Context) ([]*entity.CarModel, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]*entity.CarModel)
	return models, args.Error(1)
}

func (m *mockReferenceRepo) CreateCarModel(ctx context.Context, model *entity.CarModel) error {
	return m.Called(ctx, model).Error(0)
}

func (m *mockReferenceRepo) DeleteCarModel(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReferenceRepo) GetSetting(ctx context.Context, key string) (*entity.AppSetting, error) {
	args := m.Called(ctx, key)
	setting, _ := args.Get(0).(*entity.AppSetting)
	return setting, args.Error(1)
}

func (m *mockReferenceRepo) PutSetting(ctx context.Context, setting *entity.AppSetting) error {
	return m.Called(ctx, setting).Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishLeadEvent(ctx context.Context, event *service.LeadEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockQRCodeService struct{ mock.Mock }

func (m *mockQRCodeService) GenerateContactQR(customer *entity.Customer) ([]byte, error) {
	args := m.Called(customer)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

type mockPasswordHasher struct{ mock.Mock }

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// stubFactory hands the test's mocks back out inside a transaction.
type stubFactory struct {
	customerRepo    repository.CustomerRepository
	interactionRepo repository.InteractionRepository
	transactionRepo repository.TransactionRepository
	shareRepo       repository.ShareRepository
}

func (f *stubFactory) NewCustomerRepository() repository.CustomerRepository {
	return f.customerRepo
}

func (f *stubFactory) NewInteractionRepository() repository.InteractionRepository {
	return f.interactionRepo
}

func (f *stubFactory) NewTransactionRepository() repository.TransactionRepository {
	return f.transactionRepo
}

func (f *stubFactory) NewShareRepository() repository.ShareRepository {
	return f.shareRepo
}

// stubTxManager runs the callback against the stub factory without a real
// database transaction.
type stubTxManager struct {
	factory *stubFactory
}

func (m *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// mockAccessUsecase short-circuits permission resolution in tests that are
// not about access itself.
type mockAccessUsecase struct{ mock.Mock }

func (m *mockAccessUsecase) Resolve(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*usecase.AccessResult, error) {
	args := m.Called(ctx, viewer, customer)
	result, _ := args.Get(0).(*usecase.AccessResult)
	return result, args.Error(1)
}

func (m *mockAccessUsecase) ResolveEdit(ctx context.Context, viewer *entity.UserProfile, customer *entity.Customer) (*usecase.AccessResult, error) {
	args := m.Called(ctx, viewer, customer)
	result, _ := args.Get(0).(*usecase.AccessResult)
	return result, args.Error(1)
}
