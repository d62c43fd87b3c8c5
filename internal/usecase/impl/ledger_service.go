package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"
	"autocrm/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type ledgerService struct {
	customerRepo    repository.CustomerRepository
	transactionRepo repository.TransactionRepository
	txManager       repository.TransactionManager
	accessUsecase   usecase.AccessUsecase
	config          *config.Config
}

// LedgerServiceParams holds dependencies for LedgerService, injected by Fx.
type LedgerServiceParams struct {
	fx.In

	CustomerRepo    repository.CustomerRepository
	TransactionRepo repository.TransactionRepository
	TxManager       repository.TransactionManager
	AccessUsecase   usecase.AccessUsecase
	Config          *config.Config
}

// NewLedgerService creates a new finance ledger service instance
func NewLedgerService(params LedgerServiceParams) usecase.LedgerUsecase {
	return &ledgerService{
		customerRepo:    params.CustomerRepo,
		transactionRepo: params.TransactionRepo,
		txManager:       params.TxManager,
		accessUsecase:   params.AccessUsecase,
		config:          params.Config,
	}
}

// GetLedger projects the finance summary for a won customer.
func (s *ledgerService) GetLedger(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*usecase.LedgerView, error) {
	customer, err := s.loadWonCustomer(ctx, actor, customerID, false)
	if err != nil {
		return nil, err
	}

	txns, err := s.transactionRepo.ListTransactionsByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	return &usecase.LedgerView{
		Summary:      entity.ProjectLedger(customer.DealDetails, txns),
		Transactions: txns,
	}, nil
}

// RecordActualRevenue adds the amount onto the deal's realized revenue.
// Open to every lead source; only the closing-time revenue row is gated on
// the marketing channel.
func (s *ledgerService) RecordActualRevenue(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	customer, err := s.loadWonCustomer(ctx, actor, customerID, true)
	if err != nil {
		return err
	}

	if customer.DealDetails == nil {
		customer.DealDetails = &entity.DealDetails{}
	}
	customer.DealDetails.ActualRevenue += amount

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// AddIncurredExpense books a cost against the declared revenue. Recorded
// directly, no approval round-trip.
func (s *ledgerService) AddIncurredExpense(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnIncurredExpense, req)
}

// RequestDeposit files a customer deposit for approval.
func (s *ledgerService) RequestDeposit(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnDeposit, req)
}

// RequestExpense files a pure expense for approval.
func (s *ledgerService) RequestExpense(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnExpense, req)
}

// RequestAdvance files a cash advance for approval.
func (s *ledgerService) RequestAdvance(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnAdvance, req)
}

// BorrowLoan files a loan request after checking the actor's same-day total
// against the configured cap.
func (s *ledgerService) BorrowLoan(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	if req.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	if req.TargetDate == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("Vui lòng chọn ngày dự kiến trả")
	}

	borrowed, err := s.transactionRepo.SumLoansOnDay(ctx, actor.ID, time.Now())
	if err != nil {
		return errors.Wrap(err, "failed to total today's loans")
	}
	if borrowed+req.Amount > s.config.Finance.DailyLoanCap {
		return domainerrors.ErrDailyLoanCapExceeded.WrapMessage(
			fmt.Sprintf("Đã mượn %s trong ngày, hạn mức %s",
				util.FormatVND(borrowed), util.FormatVND(s.config.Finance.DailyLoanCap)))
	}

	return s.createRow(ctx, actor, customerID, entity.TxnLoan, req)
}

// RequestRepayment files a repayment against outstanding advances.
func (s *ledgerService) RequestRepayment(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnRepayment, req)
}

// RequestLoanRepayment files a repayment against an outstanding loan.
func (s *ledgerService) RequestLoanRepayment(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	return s.createRow(ctx, actor, customerID, entity.TxnLoanRepayment, req)
}

// AddDealerDebt books a receivable from the distributor, recorded directly
// against the order's owner. New debt also grows the deal's revenue figures,
// in the same commit as the row.
func (s *ledgerService) AddDealerDebt(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, req usecase.MoneyRequest) error {
	if req.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	if req.TargetDate == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("Vui lòng chọn ngày dự kiến thu")
	}

	customer, err := s.loadWonCustomer(ctx, actor, customerID, true)
	if err != nil {
		return err
	}

	ownerID, ownerName := orderOwner(customer, actor)
	txn := &entity.Transaction{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		UserID:       ownerID,
		UserName:     ownerName,
		Type:         entity.TxnDealerDebt,
		Amount:       req.Amount,
		Reason:       strings.TrimSpace(req.Reason),
		TargetDate:   req.TargetDate,
		Status:       entity.TxnApproved,
		ApprovedBy:   &actor.ID,
	}

	if !req.IsNewDebt {
		return s.transactionRepo.CreateTransaction(ctx, txn)
	}

	if customer.DealDetails == nil {
		customer.DealDetails = &entity.DealDetails{}
	}
	customer.DealDetails.ActualRevenue += req.Amount
	customer.DealDetails.Revenue += req.Amount
	// Predicted revenue never trails what was actually collected.
	if customer.DealDetails.Revenue < customer.DealDetails.ActualRevenue {
		customer.DealDetails.Revenue = customer.DealDetails.ActualRevenue
	}

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.NewCustomerRepository().SaveCustomer(ctx, customer); err != nil {
			return err
		}

		return factory.NewTransactionRepository().CreateTransaction(ctx, txn)
	})
}

// MarkDealerDebtCollected stamps the collected marker on a debt row and
// books the money as an approved deposit on the order's owner. Marker and
// deposit land in one commit; a second attempt is rejected.
func (s *ledgerService) MarkDealerDebtCollected(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	txn, err := s.loadTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Type != entity.TxnDealerDebt {
		return domainerrors.ErrTransactionNotFound
	}
	if txn.IsDebtCollected() {
		return domainerrors.ErrDebtAlreadyCollected
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, txn.CustomerID)
	if err != nil {
		return mapCustomerNotFound(err)
	}

	ownerID, ownerName := orderOwner(customer, actor)
	deposit := &entity.Transaction{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		UserID:       ownerID,
		UserName:     ownerName,
		Type:         entity.TxnDeposit,
		Amount:       txn.Amount,
		Reason:       "Thu nợ đại lý: " + txn.Reason,
		Status:       entity.TxnApproved,
		ApprovedBy:   &actor.ID,
	}
	txn.MarkDebtCollected()

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		transactionRepo := factory.NewTransactionRepository()
		if err := transactionRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}

		return transactionRepo.CreateTransaction(ctx, deposit)
	})
}

// ApproveTransaction settles a pending money row.
func (s *ledgerService) ApproveTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	txn, err := s.loadTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status != entity.TxnPending {
		return domainerrors.ErrTransactionNotPending
	}

	txn.Status = entity.TxnApproved
	txn.ApprovedBy = &actor.ID

	return s.transactionRepo.SaveTransaction(ctx, txn)
}

// RejectTransaction declines a pending money row.
func (s *ledgerService) RejectTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID, reason string) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	txn, err := s.loadTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.Status != entity.TxnPending {
		return domainerrors.ErrTransactionNotPending
	}

	txn.Status = entity.TxnRejected
	txn.ApprovedBy = &actor.ID
	if reason = strings.TrimSpace(reason); reason != "" {
		txn.Reason += " (Từ chối: " + reason + ")"
	}

	return s.transactionRepo.SaveTransaction(ctx, txn)
}

// DeleteTransaction removes a money row outright.
func (s *ledgerService) DeleteTransaction(ctx context.Context, actor *entity.UserProfile, transactionID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	if _, err := s.loadTransaction(ctx, transactionID); err != nil {
		return err
	}

	return s.transactionRepo.DeleteTransaction(ctx, transactionID)
}

// ListPendingTransactions returns the finance approval queue.
func (s *ledgerService) ListPendingTransactions(ctx context.Context, actor *entity.UserProfile) ([]*entity.Transaction, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}

	return s.transactionRepo.ListPendingTransactions(ctx)
}

// MarkFinanceDone flags the deal's paperwork state.
func (s *ledgerService) MarkFinanceDone(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, done bool) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return mapCustomerNotFound(err)
	}
	if customer.Status != entity.StatusWon {
		return domainerrors.ErrDealNotWon
	}

	customer.FinanceDone = done

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// createRow validates, stamps approval state from the type and persists one
// ledger row.
func (s *ledgerService) createRow(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, txnType entity.TransactionType, req usecase.MoneyRequest) error {
	if req.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	customer, err := s.loadWonCustomer(ctx, actor, customerID, true)
	if err != nil {
		return err
	}

	txn := &entity.Transaction{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		UserID:       actor.ID,
		UserName:     actor.FullName,
		Type:         txnType,
		Amount:       req.Amount,
		Reason:       strings.TrimSpace(req.Reason),
		TargetDate:   req.TargetDate,
		Status:       entity.TxnPending,
	}
	// Repayments stay pending even for elevated actors; someone else has to
	// confirm the money came back.
	if !txnType.AlwaysPending() && (!txnType.NeedsApproval() || actor.Role.IsElevated()) {
		txn.Status = entity.TxnApproved
		txn.ApprovedBy = &actor.ID
	}

	return s.transactionRepo.CreateTransaction(ctx, txn)
}

// orderOwner resolves who the order's money belongs to: the creator when
// known, then the assigned rep, then the acting user for legacy rows.
func orderOwner(customer *entity.Customer, actor *entity.UserProfile) (uuid.UUID, string) {
	name := customer.SalesRep
	if name == "" {
		name = actor.FullName
	}
	if customer.CreatorID != uuid.Nil {
		return customer.CreatorID, name
	}
	if customer.AssignedRepID != nil {
		return *customer.AssignedRepID, name
	}

	return actor.ID, actor.FullName
}

// loadWonCustomer loads a won customer with view or edit enforcement. The
// ledger only exists once a deal is won.
func (s *ledgerService) loadWonCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, edit bool) (*entity.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, mapCustomerNotFound(err)
	}
	if customer.Status != entity.StatusWon {
		return nil, domainerrors.ErrDealNotWon
	}

	if edit {
		_, err = s.accessUsecase.ResolveEdit(ctx, actor, customer)
	} else {
		_, err = s.accessUsecase.Resolve(ctx, actor, customer)
	}
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// loadTransaction translates the repository sentinel into the API error.
func (s *ledgerService) loadTransaction(ctx context.Context, transactionID uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, domainerrors.ErrTransactionNotFound
		}
		return nil, err
	}

	return txn, nil
}
