package impl

import (
	"context"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type progressService struct {
	customerRepo  repository.CustomerRepository
	accessUsecase usecase.AccessUsecase
	config        *config.Config
}

// ProgressServiceParams holds dependencies for ProgressService, injected by Fx.
type ProgressServiceParams struct {
	fx.In

	CustomerRepo  repository.CustomerRepository
	AccessUsecase usecase.AccessUsecase
	Config        *config.Config
}

// NewProgressService creates a new delivery progress service instance
func NewProgressService(params ProgressServiceParams) usecase.ProgressUsecase {
	return &progressService{
		customerRepo:  params.CustomerRepo,
		accessUsecase: params.AccessUsecase,
		config:        params.Config,
	}
}

// GetProgress returns the checklist for one won customer.
func (s *progressService) GetProgress(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*usecase.ProgressView, error) {
	customer, err := s.loadWon(ctx, actor, customerID, false)
	if err != nil {
		return nil, err
	}

	return buildProgressView(customer), nil
}

// ToggleStep flips one checklist step, honoring the forward-only order.
func (s *progressService) ToggleStep(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, stepKey string) (*usecase.ProgressView, error) {
	customer, err := s.loadWon(ctx, actor, customerID, true)
	if err != nil {
		return nil, err
	}

	if customer.DeliveryProgress == nil {
		customer.DeliveryProgress = entity.DeliveryProgress{}
	}
	if err := customer.DeliveryProgress.Toggle(customer.DealDetails, stepKey, time.Now()); err != nil {
		return nil, err
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}

	return buildProgressView(customer), nil
}

// SetCarAvailability switches the deal between in-stock and waiting.
// Entering the waiting state resets the checklist; the car is not there to
// deliver.
func (s *progressService) SetCarAvailability(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, availability string) error {
	if availability != entity.CarInStock && availability != entity.CarWaiting {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown car availability")
	}

	customer, err := s.loadWon(ctx, actor, customerID, true)
	if err != nil {
		return err
	}

	if customer.DealDetails == nil {
		customer.DealDetails = &entity.DealDetails{}
	}
	changed := customer.DealDetails.CarAvailability != availability
	customer.DealDetails.CarAvailability = availability
	if changed && availability == entity.CarWaiting {
		customer.DeliveryProgress = entity.DeliveryProgress{}
	}

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// Monitor buckets every won deal by delivery health.
func (s *progressService) Monitor(ctx context.Context, actor *entity.UserProfile) (*usecase.MonitorView, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}

	customers, err := s.customerRepo.ListWonCustomers(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	view := &usecase.MonitorView{}
	for _, customer := range customers {
		item := usecase.MonitorItem{
			CustomerID:  customer.ID,
			Name:        customer.Name,
			Phone:       customer.Phone,
			SalesRep:    customer.SalesRep,
			DaysElapsed: customer.DeliveryDaysElapsed(now),
			Percent:     customer.DeliveryProgress.Percent(customer.DealDetails),
			AwaitingCar: customer.IsAwaitingStock(),
			FinanceDone: customer.FinanceDone,
		}

		switch {
		case item.AwaitingCar:
			view.Waiting = append(view.Waiting, item)
		case item.Percent < 100 && item.DaysElapsed > s.config.Delivery.LateThresholdDays:
			view.Late = append(view.Late, item)
		default:
			view.Early = append(view.Early, item)
		}
	}

	return view, nil
}

// loadWon loads a won customer with view or edit enforcement.
func (s *progressService) loadWon(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, edit bool) (*entity.Customer, error) {
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

// buildProgressView flattens the stored map into the ordered client shape.
func buildProgressView(customer *entity.Customer) *usecase.ProgressView {
	steps := entity.ApplicableSteps(customer.DealDetails)
	view := &usecase.ProgressView{
		Steps:   make([]usecase.StepView, 0, len(steps)),
		Percent: customer.DeliveryProgress.Percent(customer.DealDetails),
	}
	for _, step := range steps {
		state := customer.DeliveryProgress[step.Key]
		view.Steps = append(view.Steps, usecase.StepView{
			Key:         step.Key,
			Label:       step.Label,
			Completed:   state.Completed,
			CompletedAt: state.Timestamp,
		})
	}

	return view
}
