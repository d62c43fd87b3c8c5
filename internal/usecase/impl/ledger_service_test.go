package impl

import (
	"context"
	"testing"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerServiceMocks struct {
	customerRepo    *mockCustomerRepo
	transactionRepo *mockTransactionRepo
	accessUsecase   *mockAccessUsecase
}

func newLedgerService(m *ledgerServiceMocks) usecase.LedgerUsecase {
	return NewLedgerService(LedgerServiceParams{
		CustomerRepo:    m.customerRepo,
		TransactionRepo: m.transactionRepo,
		TxManager: &stubTxManager{factory: &stubFactory{
			customerRepo:    m.customerRepo,
			transactionRepo: m.transactionRepo,
		}},
		AccessUsecase: m.accessUsecase,
		Config: &config.Config{
			Finance: &config.FinanceConfig{DailyLoanCap: 100_000_000},
		},
	})
}

func newLedgerServiceMocks() *ledgerServiceMocks {
	return &ledgerServiceMocks{
		customerRepo:    &mockCustomerRepo{},
		transactionRepo: &mockTransactionRepo{},
		accessUsecase:   &mockAccessUsecase{},
	}
}

func wonCustomer(source string) *entity.Customer {
	return &entity.Customer{
		ID:     uuid.New(),
		Name:   "Khách",
		Status: entity.StatusWon,
		Source: source,
		DealDetails: &entity.DealDetails{
			CarModel:      "VF 7",
			PaymentMethod: entity.PaymentBank,
		},
	}
}

func grantEdit(m *ledgerServiceMocks) {
	m.accessUsecase.On("ResolveEdit", mock.Anything, mock.Anything, mock.Anything).
		Return(&usecase.AccessResult{Permission: entity.PermissionEdit}, nil)
}

func TestLedgerService_BorrowLoan_UnderCap(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), FullName: "A", Role: entity.RoleEmployee}
	customer := wonCustomer("MKT Group")
	due := time.Now().AddDate(0, 0, 7)

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("SumLoansOnDay", mock.Anything, actor.ID, mock.AnythingOfType("time.Time")).
		Return(int64(60_000_000), nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.Type == entity.TxnLoan && txn.Status == entity.TxnPending
	})).Return(nil)

	err := svc.BorrowLoan(context.Background(), actor, customer.ID, usecase.MoneyRequest{Amount: 40_000_000, TargetDate: &due})
	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
}

func TestLedgerService_BorrowLoan_RequiresTargetDate(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}

	err := svc.BorrowLoan(context.Background(), actor, uuid.New(), usecase.MoneyRequest{Amount: 10_000_000})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	m.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestLedgerService_BorrowLoan_CapExceeded(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	due := time.Now().AddDate(0, 0, 7)

	m.transactionRepo.On("SumLoansOnDay", mock.Anything, actor.ID, mock.AnythingOfType("time.Time")).
		Return(int64(70_000_000), nil)

	err := svc.BorrowLoan(context.Background(), actor, uuid.New(), usecase.MoneyRequest{Amount: 40_000_000, TargetDate: &due})
	assert.ErrorIs(t, err, domainerrors.ErrDailyLoanCapExceeded)
	m.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestLedgerService_BorrowLoan_ExactlyAtCap(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := wonCustomer("MKT Group")
	due := time.Now().AddDate(0, 0, 7)

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("SumLoansOnDay", mock.Anything, actor.ID, mock.AnythingOfType("time.Time")).
		Return(int64(60_000_000), nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil)

	err := svc.BorrowLoan(context.Background(), actor, customer.ID, usecase.MoneyRequest{Amount: 40_000_000, TargetDate: &due})
	require.NoError(t, err)
}

func TestLedgerService_AddIncurredExpense_RecordedDirectly(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := wonCustomer("MKT Group")

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.Type == entity.TxnIncurredExpense && txn.Status == entity.TxnApproved
	})).Return(nil)

	err := svc.AddIncurredExpense(context.Background(), actor, customer.ID, usecase.MoneyRequest{
		Amount: 2_000_000,
		Reason: "Phí đăng ký",
	})
	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
}

func TestLedgerService_RequestDeposit_EmployeePendsElevatedDirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role entity.Role
		want entity.TransactionStatus
	}{
		{"employee pends", entity.RoleEmployee, entity.TxnPending},
		{"admin records directly", entity.RoleAdmin, entity.TxnApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newLedgerServiceMocks()
			svc := newLedgerService(m)
			grantEdit(m)

			actor := &entity.UserProfile{ID: uuid.New(), Role: tt.role}
			customer := wonCustomer("MKT Group")

			m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
			m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
				return txn.Type == entity.TxnDeposit && txn.Status == tt.want
			})).Return(nil)

			err := svc.RequestDeposit(context.Background(), actor, customer.ID, usecase.MoneyRequest{Amount: 5_000_000})
			require.NoError(t, err)
			m.transactionRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_CreateRow_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}

	err := svc.RequestExpense(context.Background(), actor, uuid.New(), usecase.MoneyRequest{Amount: 0})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	err = svc.RequestAdvance(context.Background(), actor, uuid.New(), usecase.MoneyRequest{Amount: -500})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
}

func TestLedgerService_RecordActualRevenue_AddsOntoRunningTotal(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	customer := wonCustomer("MKT Group")
	customer.DealDetails.ActualRevenue = 8_000_000

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.customerRepo.On("SaveCustomer", mock.Anything, customer).Return(nil)

	require.NoError(t, svc.RecordActualRevenue(context.Background(), actor, customer.ID, 12_000_000))
	assert.Equal(t, int64(20_000_000), customer.DealDetails.ActualRevenue)
}

func TestLedgerService_RecordActualRevenue_AnyLeadSource(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	customer := wonCustomer("Tự khai thác")

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.customerRepo.On("SaveCustomer", mock.Anything, customer).Return(nil)

	require.NoError(t, svc.RecordActualRevenue(context.Background(), actor, customer.ID, 12_000_000))
	assert.Equal(t, int64(12_000_000), customer.DealDetails.ActualRevenue)
}

func TestLedgerService_RecordActualRevenue_RejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}

	err := svc.RecordActualRevenue(context.Background(), actor, uuid.New(), 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
}

func TestLedgerService_Repayments_PendEvenForElevated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   func(svc usecase.LedgerUsecase, actor *entity.UserProfile, customerID uuid.UUID) error
		want entity.TransactionType
	}{
		{
			"advance repayment",
			func(svc usecase.LedgerUsecase, actor *entity.UserProfile, customerID uuid.UUID) error {
				return svc.RequestRepayment(context.Background(), actor, customerID, usecase.MoneyRequest{Amount: 3_000_000})
			},
			entity.TxnRepayment,
		},
		{
			"loan repayment",
			func(svc usecase.LedgerUsecase, actor *entity.UserProfile, customerID uuid.UUID) error {
				return svc.RequestLoanRepayment(context.Background(), actor, customerID, usecase.MoneyRequest{Amount: 3_000_000})
			},
			entity.TxnLoanRepayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newLedgerServiceMocks()
			svc := newLedgerService(m)
			grantEdit(m)

			admin := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleAdmin}
			customer := wonCustomer("MKT Group")

			m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
			m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
				return txn.Type == tt.want && txn.Status == entity.TxnPending && txn.ApprovedBy == nil
			})).Return(nil)

			require.NoError(t, tt.op(svc, admin, customer.ID))
			m.transactionRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_GetLedger_RequiresWonDeal(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := &entity.Customer{ID: uuid.New(), Status: entity.StatusPotential}
	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)

	_, err := svc.GetLedger(context.Background(), actor, customer.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDealNotWon)
}

func TestLedgerService_GetLedger_ProjectsSummary(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := wonCustomer("MKT Group")
	customer.DealDetails.ActualRevenue = 20_000_000

	m.accessUsecase.On("Resolve", mock.Anything, actor, customer).
		Return(&usecase.AccessResult{Permission: entity.PermissionView}, nil)
	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("ListTransactionsByCustomer", mock.Anything, customer.ID).
		Return([]*entity.Transaction{
			{Type: entity.TxnDeposit, Amount: 5_000_000, Status: entity.TxnApproved},
			{Type: entity.TxnIncurredExpense, Amount: 3_000_000, Status: entity.TxnApproved},
			{Type: entity.TxnDeposit, Amount: 99_000_000, Status: entity.TxnPending},
		}, nil)

	view, err := svc.GetLedger(context.Background(), actor, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), view.Summary.TotalDeposited)
	assert.Equal(t, int64(12_000_000), view.Summary.PendingDeposit)
	assert.Len(t, view.Transactions, 3)
}

func TestLedgerService_ApproveTransaction_StampsApprover(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	mod := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	txn := &entity.Transaction{ID: uuid.New(), Type: entity.TxnDeposit, Status: entity.TxnPending}

	m.transactionRepo.On("FindTransactionByID", mock.Anything, txn.ID).Return(txn, nil)
	m.transactionRepo.On("SaveTransaction", mock.Anything, txn).Return(nil)

	require.NoError(t, svc.ApproveTransaction(context.Background(), mod, txn.ID))
	assert.Equal(t, entity.TxnApproved, txn.Status)
	require.NotNil(t, txn.ApprovedBy)
	assert.Equal(t, mod.ID, *txn.ApprovedBy)
}

func TestLedgerService_ApproveTransaction_NotPending(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	mod := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	txn := &entity.Transaction{ID: uuid.New(), Status: entity.TxnApproved}
	m.transactionRepo.On("FindTransactionByID", mock.Anything, txn.ID).Return(txn, nil)

	err := svc.ApproveTransaction(context.Background(), mod, txn.ID)
	assert.ErrorIs(t, err, domainerrors.ErrTransactionNotPending)
}

func TestLedgerService_AddDealerDebt_AttributedToOwner(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	admin := &entity.UserProfile{ID: uuid.New(), FullName: "Admin", Role: entity.RoleAdmin}
	customer := wonCustomer("MKT Group")
	customer.CreatorID = uuid.New()
	customer.SalesRep = "Nguyễn Văn B"
	due := time.Now().AddDate(0, 0, 14)

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.Type == entity.TxnDealerDebt &&
			txn.Status == entity.TxnApproved &&
			txn.UserID == customer.CreatorID &&
			txn.UserName == "Nguyễn Văn B"
	})).Return(nil)

	err := svc.AddDealerDebt(context.Background(), admin, customer.ID, usecase.MoneyRequest{
		Amount:     4_000_000,
		Reason:     "Nợ đại lý",
		TargetDate: &due,
	})
	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
	m.customerRepo.AssertNotCalled(t, "SaveCustomer", mock.Anything, mock.Anything)
}

func TestLedgerService_AddDealerDebt_RequiresTargetDate(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	admin := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleAdmin}

	err := svc.AddDealerDebt(context.Background(), admin, uuid.New(), usecase.MoneyRequest{Amount: 4_000_000})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	m.transactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestLedgerService_AddDealerDebt_NewDebtGrowsRevenue(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	admin := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleAdmin}
	customer := wonCustomer("MKT Group")
	customer.DealDetails.Revenue = 100_000_000
	customer.DealDetails.ActualRevenue = 110_000_000
	due := time.Now().AddDate(0, 0, 14)

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.customerRepo.On("SaveCustomer", mock.Anything, customer).Return(nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.Type == entity.TxnDealerDebt && txn.Status == entity.TxnApproved
	})).Return(nil)

	err := svc.AddDealerDebt(context.Background(), admin, customer.ID, usecase.MoneyRequest{
		Amount:     5_000_000,
		Reason:     "Nợ phụ kiện",
		TargetDate: &due,
		IsNewDebt:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(115_000_000), customer.DealDetails.ActualRevenue)
	// Predicted revenue is pulled up to the actual figure it now trails.
	assert.Equal(t, int64(115_000_000), customer.DealDetails.Revenue)
	m.customerRepo.AssertExpectations(t)
	m.transactionRepo.AssertExpectations(t)
}

func TestLedgerService_MarkDealerDebtCollected_BooksOneDeposit(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	mod := &entity.UserProfile{ID: uuid.New(), FullName: "Mod", Role: entity.RoleMod}
	customer := wonCustomer("MKT Group")
	customer.CreatorID = uuid.New()
	customer.SalesRep = "Nguyễn Văn B"
	txn := &entity.Transaction{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Type:       entity.TxnDealerDebt,
		Amount:     4_000_000,
		Reason:     "Nợ đại lý",
		Status:     entity.TxnApproved,
	}

	m.transactionRepo.On("FindTransactionByID", mock.Anything, txn.ID).Return(txn, nil)
	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("SaveTransaction", mock.Anything, txn).Return(nil).Once()
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(deposit *entity.Transaction) bool {
		return deposit.Type == entity.TxnDeposit &&
			deposit.Status == entity.TxnApproved &&
			deposit.Amount == txn.Amount &&
			deposit.UserID == customer.CreatorID &&
			deposit.Reason == "Thu nợ đại lý: Nợ đại lý" &&
			deposit.ApprovedBy != nil && *deposit.ApprovedBy == mod.ID
	})).Return(nil).Once()

	require.NoError(t, svc.MarkDealerDebtCollected(context.Background(), mod, txn.ID))
	assert.True(t, txn.IsDebtCollected())

	// The second attempt is rejected before any new row can be written.
	err := svc.MarkDealerDebtCollected(context.Background(), mod, txn.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDebtAlreadyCollected)
	m.transactionRepo.AssertExpectations(t)
}

func TestLedgerService_MarkDealerDebtCollected_ElevatedOnly(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	employee := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	err := svc.MarkDealerDebtCollected(context.Background(), employee, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrElevatedOnly)
}

func TestLedgerService_DeleteTransaction_ElevatedOnly(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	employee := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	err := svc.DeleteTransaction(context.Background(), employee, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrElevatedOnly)

	mod := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	txn := &entity.Transaction{ID: uuid.New(), Type: entity.TxnExpense, Status: entity.TxnApproved}
	m.transactionRepo.On("FindTransactionByID", mock.Anything, txn.ID).Return(txn, nil)
	m.transactionRepo.On("DeleteTransaction", mock.Anything, txn.ID).Return(nil)

	require.NoError(t, svc.DeleteTransaction(context.Background(), mod, txn.ID))
	m.transactionRepo.AssertExpectations(t)
}

func TestLedgerService_MarkFinanceDone(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)

	mod := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleMod}
	customer := wonCustomer("MKT Group")

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.customerRepo.On("SaveCustomer", mock.Anything, customer).Return(nil)

	require.NoError(t, svc.MarkFinanceDone(context.Background(), mod, customer.ID, true))
	assert.True(t, customer.FinanceDone)
}

func TestLedgerService_BorrowLoan_TargetDateStored(t *testing.T) {
	t.Parallel()

	m := newLedgerServiceMocks()
	svc := newLedgerService(m)
	grantEdit(m)

	actor := &entity.UserProfile{ID: uuid.New(), Role: entity.RoleEmployee}
	customer := wonCustomer("MKT Group")
	due := time.Now().AddDate(0, 0, 7)

	m.customerRepo.On("FindCustomerByID", mock.Anything, customer.ID).Return(customer, nil)
	m.transactionRepo.On("SumLoansOnDay", mock.Anything, actor.ID, mock.Anything).
		Return(int64(0), nil)
	m.transactionRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.TargetDate != nil && txn.TargetDate.Equal(due)
	})).Return(nil)

	err := svc.BorrowLoan(context.Background(), actor, customer.ID, usecase.MoneyRequest{
		Amount:     10_000_000,
		TargetDate: &due,
	})
	require.NoError(t, err)
	m.transactionRepo.AssertExpectations(t)
}
