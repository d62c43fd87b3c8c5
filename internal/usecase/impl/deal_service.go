package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autocrm/internal/domain/constants"
	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type dealService struct {
	customerRepo  repository.CustomerRepository
	profileRepo   repository.ProfileRepository
	txManager     repository.TransactionManager
	accessUsecase usecase.AccessUsecase
	logger        *slog.Logger
}

// DealServiceParams holds dependencies for DealService, injected by Fx.
type DealServiceParams struct {
	fx.In

	CustomerRepo  repository.CustomerRepository
	ProfileRepo   repository.ProfileRepository
	TxManager     repository.TransactionManager
	AccessUsecase usecase.AccessUsecase
	Logger        *slog.Logger
}

// NewDealService creates a new deal lifecycle service instance
func NewDealService(params DealServiceParams) usecase.DealUsecase {
	return &dealService{
		customerRepo:  params.CustomerRepo,
		profileRepo:   params.ProfileRepo,
		txManager:     params.TxManager,
		accessUsecase: params.AccessUsecase,
		logger:        params.Logger,
	}
}

// RequestWin records the closing form. Elevated actors close the deal on
// the spot; everyone else parks the customer in the win-pending status.
func (s *dealService) RequestWin(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, form usecase.DealForm) error {
	customer, err := s.loadForEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if !customer.Status.CanTransition(entity.StatusWonPending) {
		return domainerrors.ErrInvalidTransition
	}
	if err := validateDealForm(form); err != nil {
		return err
	}

	customer.Status = entity.StatusWonPending
	customer.DealDetails = &entity.DealDetails{
		CarModel:        strings.TrimSpace(form.CarModel),
		PaymentMethod:   form.PaymentMethod,
		PlateType:       strings.TrimSpace(form.PlateType),
		Revenue:         form.Revenue,
		Distributor:     strings.TrimSpace(form.Distributor),
		CarAvailability: form.CarAvailability,
		HasAccessories:  form.HasAccessories,
		Notes:           form.Notes,
	}

	if actor.Role.IsElevated() {
		return s.settleWin(ctx, actor, customer, fmt.Sprintf("Chốt đơn: %s", customer.DealDetails.CarModel))
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, fmt.Sprintf("Yêu cầu duyệt chốt đơn: %s", customer.DealDetails.CarModel))

	return nil
}

// StopCare abandons a lead. Elevated actors settle the abandonment in the
// same move, everyone else waits for approval.
func (s *dealService) StopCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, reason string) error {
	customer, err := s.loadForEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if !customer.Status.CanTransition(entity.StatusLostPending) {
		return domainerrors.ErrInvalidTransition
	}

	customer.StopReason = strings.TrimSpace(reason)
	customer.Status = entity.StatusLostPending
	if actor.Role.IsElevated() {
		customer.Status = entity.StatusLost
	}
	// Stopping care always cools the lead, on both paths.
	customer.Classification = entity.ClassificationCool

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, fmt.Sprintf("Dừng chăm sóc: %s", customer.StopReason))

	return nil
}

// ReopenCare brings an abandoned customer back into the working pool.
func (s *dealService) ReopenCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error {
	customer, err := s.loadForEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if customer.Status != entity.StatusLost || !customer.Status.CanTransition(entity.StatusPotential) {
		return domainerrors.ErrInvalidTransition
	}

	customer.Status = entity.StatusPotential
	customer.StopReason = ""

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, "Mở lại chăm sóc khách hàng")

	return nil
}

// RequestDealAction moves the post-win settlement state. Resume is direct,
// cancel drops the deal back out of the won lifecycle, and the terminal
// actions enter a pending state that elevated actors instantly settle for
// themselves.
func (s *dealService) RequestDealAction(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, action entity.DealAction, reason string) error {
	customer, err := s.loadForEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if customer.Status != entity.StatusWon || customer.WonAt == nil {
		return domainerrors.ErrDealNotWon
	}

	current := customer.DealStatus
	if current == "" {
		current = entity.DealProcessing
	}
	if current.IsPending() {
		return domainerrors.ErrInvalidTransition
	}

	if action == entity.DealActionCancel {
		return s.cancelDeal(ctx, actor, customer, reason)
	}

	next, ok := current.Apply(action)
	if !ok {
		return domainerrors.ErrInvalidTransition
	}
	if actor.Role.IsElevated() {
		if settled, pending := next.Resolve(); pending {
			next = settled
		}
	}

	customer.DealStatus = next
	if next == entity.DealCompleted {
		s.completeDelivery(customer, time.Now())
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	note := fmt.Sprintf("Cập nhật trạng thái đơn: %s", next)
	if reason = strings.TrimSpace(reason); reason != "" {
		note += " - " + reason
	}
	s.audit(ctx, customer, actor, note)

	return nil
}

// cancelDeal unwinds a won deal back to the potential pool. The customer
// keeps the closing form and history; only the lifecycle and settlement
// state roll back.
func (s *dealService) cancelDeal(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer, reason string) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	customer.Status = entity.StatusPotential
	customer.DealStatus = ""

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	note := "Hủy đơn, chuyển khách về Tiềm năng"
	if reason = strings.TrimSpace(reason); reason != "" {
		note += " - " + reason
	}
	s.audit(ctx, customer, actor, note)

	return nil
}

// completeDelivery closes out the checklist alongside a completed deal.
// Steps stamped earlier keep their timestamps.
func (s *dealService) completeDelivery(customer *entity.Customer, now time.Time) {
	if customer.DeliveryProgress == nil {
		customer.DeliveryProgress = entity.DeliveryProgress{}
	}
	customer.DeliveryProgress.ForceComplete(customer.DealDetails, now)
}

// ApproveCustomer settles whatever is pending on the customer, in priority
// order: transfer, lifecycle request, deal action.
func (s *dealService) ApproveCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return mapCustomerNotFound(err)
	}

	switch {
	case customer.PendingTransferTo != nil:
		return s.approveTransfer(ctx, actor, customer)
	case customer.Status == entity.StatusWonPending:
		return s.approveWin(ctx, actor, customer)
	case customer.Status == entity.StatusLostPending:
		return s.approveLost(ctx, actor, customer)
	case customer.DealStatus.IsPending():
		return s.approveDealAction(ctx, actor, customer)
	default:
		return domainerrors.ErrNothingToApprove
	}
}

// RejectCustomer rolls the pending request back.
func (s *dealService) RejectCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, reason string) error {
	if !actor.Role.IsElevated() {
		return domainerrors.ErrElevatedOnly
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return mapCustomerNotFound(err)
	}

	var note string
	switch {
	case customer.PendingTransferTo != nil:
		customer.PendingTransferTo = nil
		note = "Từ chối yêu cầu chuyển khách hàng"
	case customer.Status == entity.StatusWonPending:
		customer.Status = entity.StatusPotential
		note = "Từ chối duyệt chốt đơn"
	case customer.Status == entity.StatusLostPending:
		customer.Status = entity.StatusPotential
		customer.StopReason = ""
		note = "Từ chối yêu cầu dừng chăm sóc"
	case customer.DealStatus.IsPending():
		// A rejected settlement request drops the deal back to processing.
		customer.DealStatus = entity.DealProcessing
		note = "Từ chối cập nhật trạng thái đơn"
	default:
		return domainerrors.ErrNothingToApprove
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	if reason = strings.TrimSpace(reason); reason != "" {
		note += ": " + reason
	}
	s.audit(ctx, customer, actor, note)

	return nil
}

// ListPendingApprovals returns the approval queue for elevated users.
func (s *dealService) ListPendingApprovals(ctx context.Context, actor *entity.UserProfile) ([]*usecase.PendingApproval, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}

	customers, err := s.customerRepo.ListPendingApprovals(ctx)
	if err != nil {
		return nil, err
	}

	queue := make([]*usecase.PendingApproval, 0, len(customers))
	for _, customer := range customers {
		kind := ""
		switch {
		case customer.PendingTransferTo != nil:
			kind = "transfer"
		case customer.Status == entity.StatusWonPending:
			kind = "win"
		case customer.Status == entity.StatusLostPending:
			kind = "lost"
		case customer.DealStatus.IsPending():
			kind = "deal_action"
		default:
			continue
		}
		queue = append(queue, &usecase.PendingApproval{Customer: customer, Kind: kind})
	}

	return queue, nil
}

// ChangeSalesRep hands the customer to another rep within the actor's reach.
func (s *dealService) ChangeSalesRep(ctx context.Context, actor *entity.UserProfile, customerID, newRepID uuid.UUID) error {
	customer, err := s.loadForEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	target, err := s.profileRepo.FindProfileByID(ctx, newRepID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domainerrors.ErrProfileNotFound
		}
		return err
	}
	if !actor.Role.IsElevated() && !withinReach(actor, target) {
		return domainerrors.ErrAccessDenied
	}

	previous := customer.SalesRep
	customer.AssignedRepID = &target.ID
	customer.SalesRep = target.FullName

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, fmt.Sprintf("Chuyển phụ trách từ %s sang %s", previous, target.FullName))

	return nil
}

func (s *dealService) approveWin(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer) error {
	return s.settleWin(ctx, actor, customer, "Duyệt chốt đơn")
}

// settleWin closes the deal: the customer becomes won, the delivery
// checklist opens with the deposit already stamped, and on marketing-sourced
// deals the declared revenue lands in the ledger. All of it commits or none
// of it does.
func (s *dealService) settleWin(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer, note string) error {
	if !customer.Status.CanTransition(entity.StatusWon) {
		return domainerrors.ErrInvalidTransition
	}

	now := time.Now()
	customer.Status = entity.StatusWon
	customer.DealStatus = entity.DealProcessing
	customer.PendingTransferTo = nil
	if customer.DeliveryProgress == nil {
		customer.DeliveryProgress = entity.DeliveryProgress{}
	}
	if !customer.DeliveryProgress["deposited"].Completed {
		if err := customer.DeliveryProgress.Toggle(customer.DealDetails, "deposited", now); err != nil {
			s.logger.Warn("failed to stamp deposit step", slog.Any("error", err))
		}
	}
	if customer.DealDetails != nil && customer.DealDetails.ActualRevenue == 0 {
		customer.DealDetails.ActualRevenue = customer.DealDetails.Revenue
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		customerRepo := factory.NewCustomerRepository()
		if err := customerRepo.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		if err := customerRepo.UpdateWonAt(ctx, customer.ID, now); err != nil {
			return err
		}

		if customer.DealDetails != nil && customer.DealDetails.Revenue > 0 &&
			constants.IsPrimaryLeadSource(customer.Source) {
			revenue := &entity.Transaction{
				CustomerID:   customer.ID,
				CustomerName: customer.Name,
				UserID:       actor.ID,
				UserName:     actor.FullName,
				Type:         entity.TxnRevenue,
				Amount:       customer.DealDetails.Revenue,
				Reason:       fmt.Sprintf("Doanh thu chốt đơn %s", customer.DealDetails.CarModel),
				Status:       entity.TxnApproved,
				ApprovedBy:   &actor.ID,
			}
			if err := factory.NewTransactionRepository().CreateTransaction(ctx, revenue); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	customer.WonAt = &now
	s.audit(ctx, customer, actor, note)

	return nil
}

func (s *dealService) approveLost(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer) error {
	if !customer.Status.CanTransition(entity.StatusLost) {
		return domainerrors.ErrInvalidTransition
	}

	customer.Status = entity.StatusLost
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, "Duyệt dừng chăm sóc")

	return nil
}

func (s *dealService) approveDealAction(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer) error {
	settled, ok := customer.DealStatus.Resolve()
	if !ok {
		return domainerrors.ErrNothingToApprove
	}

	customer.DealStatus = settled
	if settled == entity.DealCompleted {
		s.completeDelivery(customer, time.Now())
	}
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, fmt.Sprintf("Duyệt trạng thái đơn: %s", settled))

	return nil
}

func (s *dealService) approveTransfer(ctx context.Context, actor *entity.UserProfile, customer *entity.Customer) error {
	newRepID := *customer.PendingTransferTo
	target, err := s.profileRepo.FindProfileByID(ctx, newRepID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return domainerrors.ErrProfileNotFound
		}
		return err
	}

	previous := customer.SalesRep
	customer.AssignedRepID = &target.ID
	customer.SalesRep = target.FullName
	customer.PendingTransferTo = nil

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.audit(ctx, customer, actor, fmt.Sprintf("Duyệt chuyển khách hàng từ %s sang %s", previous, target.FullName))

	return nil
}

// loadForEdit loads the customer and requires an edit capability.
func (s *dealService) loadForEdit(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, mapCustomerNotFound(err)
	}

	if _, err := s.accessUsecase.ResolveEdit(ctx, actor, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// audit appends a system entry through the shared audit pipeline. Failures
// are logged only.
func (s *dealService) audit(ctx context.Context, customer *entity.Customer, actor *entity.UserProfile, content string) {
	note := entity.NewSystemInteraction(customer.ID, actor.ID, actor.FullName, content)
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.NewInteractionRepository().CreateInteraction(ctx, note)
	})
	if err != nil {
		s.logger.Warn("failed to record audit note",
			slog.String("customer_id", customer.ID.String()),
			slog.Any("error", err))
	}
}

// validateDealForm sanity-checks the closing form before it is stored.
func validateDealForm(form usecase.DealForm) error {
	if strings.TrimSpace(form.CarModel) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("car model is required")
	}
	if form.PaymentMethod != entity.PaymentCash && form.PaymentMethod != entity.PaymentBank {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown payment method")
	}
	if form.Revenue < 0 {
		return domainerrors.ErrInvalidAmount
	}
	if form.CarAvailability != "" &&
		form.CarAvailability != entity.CarInStock && form.CarAvailability != entity.CarWaiting {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown car availability")
	}

	return nil
}

// mapCustomerNotFound translates the repository sentinel into the API error.
func mapCustomerNotFound(err error) error {
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return domainerrors.ErrCustomerNotFound
	}

	return err
}
