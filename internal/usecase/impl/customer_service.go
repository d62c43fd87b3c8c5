package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"autocrm/config"
	"autocrm/internal/domain/entity"
	domainerrors "autocrm/internal/domain/errors"
	"autocrm/internal/domain/repository"
	"autocrm/internal/domain/service"
	"autocrm/internal/usecase"
	"autocrm/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// longTermMinLeadDays is the minimum distance of a long-term return date.
const longTermMinLeadDays = 10

// recareWindowDays bounds how far out a regular recare date may be set.
const recareWindowDays = 4

type customerService struct {
	customerRepo    repository.CustomerRepository
	interactionRepo repository.InteractionRepository
	shareRepo       repository.ShareRepository
	delegationRepo  repository.DelegationRepository
	profileRepo     repository.ProfileRepository
	txManager       repository.TransactionManager
	accessUsecase   usecase.AccessUsecase
	eventPublisher  service.EventPublisher
	qrcodeService   service.QRCodeService
	config          *config.Config
	logger          *slog.Logger
}

// CustomerServiceParams holds dependencies for CustomerService, injected by Fx.
type CustomerServiceParams struct {
	fx.In

	CustomerRepo    repository.CustomerRepository
	InteractionRepo repository.InteractionRepository
	ShareRepo       repository.ShareRepository
	DelegationRepo  repository.DelegationRepository
	ProfileRepo     repository.ProfileRepository
	TxManager       repository.TransactionManager
	AccessUsecase   usecase.AccessUsecase
	EventPublisher  service.EventPublisher
	QRCodeService   service.QRCodeService
	Config          *config.Config
	Logger          *slog.Logger
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(params CustomerServiceParams) usecase.CustomerUsecase {
	return &customerService{
		customerRepo:    params.CustomerRepo,
		interactionRepo: params.InteractionRepo,
		shareRepo:       params.ShareRepo,
		delegationRepo:  params.DelegationRepo,
		profileRepo:     params.ProfileRepo,
		txManager:       params.TxManager,
		accessUsecase:   params.AccessUsecase,
		eventPublisher:  params.EventPublisher,
		qrcodeService:   params.QRCodeService,
		config:          params.Config,
		logger:          params.Logger,
	}
}

// CreateCustomer normalizes the phone, guards against duplicates, persists
// the lead and fires the intake event.
func (s *customerService) CreateCustomer(ctx context.Context, actor *entity.UserProfile, input usecase.CreateCustomerInput) (*usecase.CreateCustomerOutput, error) {
	if actor.IsLockedAdd {
		return nil, domainerrors.ErrAccountLocked
	}

	phone := util.NormalizePhone(input.Phone)
	if !util.IsValidPhone(phone) {
		return nil, domainerrors.ErrInvalidPhone
	}

	existing, err := s.customerRepo.FindCustomerByPhone(ctx, phone)
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, errors.Wrap(err, "failed to check phone for duplicates")
	}
	if existing != nil {
		return &usecase.CreateCustomerOutput{Duplicate: s.describeDuplicate(ctx, existing)}, nil
	}

	assignee, err := s.resolveAssignee(ctx, actor, input.AssignedRepID)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:           strings.TrimSpace(input.Name),
		Phone:          phone,
		SecondaryPhone: util.NormalizePhone(input.SecondaryPhone),
		Email:          strings.TrimSpace(input.Email),
		Location:       strings.TrimSpace(input.Location),
		Source:         strings.TrimSpace(input.Source),
		Interest:       strings.TrimSpace(input.Interest),
		Notes:          input.Notes,
		Status:         entity.StatusNew,
		Classification: entity.ClassificationWarm,
		CreatorID:      actor.ID,
		AssignedRepID:  &assignee.ID,
		SalesRep:       assignee.FullName,
	}

	if err := s.customerRepo.CreateCustomer(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicateCustomerPhone) {
			// Lost the race to another intake with the same phone.
			raced, findErr := s.customerRepo.FindCustomerByPhone(ctx, phone)
			if findErr == nil {
				return &usecase.CreateCustomerOutput{Duplicate: s.describeDuplicate(ctx, raced)}, nil
			}
			return nil, domainerrors.ErrDuplicatePhone
		}

		return nil, err
	}

	s.recordSystemNote(ctx, customer, actor, "Tạo khách hàng mới")
	s.publishLeadEvent(ctx, customer, actor, assignee)

	return &usecase.CreateCustomerOutput{Customer: customer}, nil
}

// GetCustomer loads one customer with access enforcement and history.
func (s *customerService) GetCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*usecase.CustomerDetail, error) {
	customer, access, err := s.loadWithAccess(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	// Repair care flags broken by legacy imports before anyone acts on them.
	if customer.NormalizeCareFlags() {
		if saveErr := s.customerRepo.SaveCustomer(ctx, customer); saveErr != nil {
			s.logger.Warn("failed to persist care flag repair",
				slog.String("customer_id", customer.ID.String()),
				slog.Any("error", saveErr))
		}
	}

	interactions, err := s.interactionRepo.ListInteractionsByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list interactions")
	}

	return &usecase.CustomerDetail{
		Customer:     customer,
		Access:       access,
		Interactions: interactions,
	}, nil
}

// ListCustomers returns the customers the actor may see. Following the
// workflow the sales team grew up with, it fetches a bounded recent window
// and applies tabs, search and pagination over that window in memory.
func (s *customerService) ListCustomers(ctx context.Context, actor *entity.UserProfile, input usecase.ListCustomersInput) ([]*entity.Customer, error) {
	filter := repository.CustomerListFilter{Limit: s.config.Customers.ListLimit}

	// Stored lifecycle statuses can narrow the fetch; virtual tabs are
	// derived from care flags and only resolve in memory.
	if storedStatusesOnly(input.Statuses) {
		filter.Statuses = input.Statuses
	}

	if !actor.Role.IsElevated() {
		if actor.IsLockedView {
			return nil, domainerrors.ErrAccountLocked
		}
		filter.VisibleTo = &actor.ID
		delegations, err := s.delegationRepo.ListDelegationsForRecipient(ctx, actor.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list delegations")
		}
		for _, d := range delegations {
			filter.DelegatedTargetIDs = append(filter.DelegatedTargetIDs, d.TargetUserID)
		}
	}

	customers, err := s.customerRepo.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, c := range customers {
		c.NormalizeCareFlags()
	}

	customers = filterByStatusTabs(customers, input.Statuses, time.Now())
	if search := strings.TrimSpace(input.Search); search != "" {
		customers = filterBySearch(customers, search)
	}

	return paginate(customers, input.Page, input.PageSize), nil
}

// UpdateCustomer applies partial profile edits.
func (s *customerService) UpdateCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, input usecase.UpdateCustomerInput) (*entity.Customer, error) {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	// Profile fields freeze once the deal closes.
	if customer.Status == entity.StatusWon {
		return nil, domainerrors.ErrCustomerLocked.WrapMessage("Khách hàng đã chốt đơn, không thể chỉnh sửa thông tin")
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.SecondaryPhone != nil {
		customer.SecondaryPhone = util.NormalizePhone(*input.SecondaryPhone)
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.Location != nil {
		customer.Location = strings.TrimSpace(*input.Location)
	}
	if input.Interest != nil {
		customer.Interest = strings.TrimSpace(*input.Interest)
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// AcknowledgeCustomer moves a fresh lead into the working pool.
func (s *customerService) AcknowledgeCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if customer.IsAcknowledged {
		return nil
	}

	customer.IsAcknowledged = true
	if customer.Status == entity.StatusNew {
		customer.Status = entity.StatusPotential
	}

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// SetClassification updates the temperature read.
func (s *customerService) SetClassification(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, classification entity.Classification) error {
	switch classification {
	case entity.ClassificationHot, entity.ClassificationWarm, entity.ClassificationCool:
	default:
		return domainerrors.ErrValidationFailed.WrapMessage("unknown classification")
	}

	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	// Long-term customers are pinned to Cool until the flag comes off.
	if customer.IsLongTerm && classification != entity.ClassificationCool {
		return domainerrors.ErrValidationFailed.WrapMessage("long-term customers stay Cool")
	}

	customer.Classification = classification

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// SetRecareDate schedules or clears the next follow-up.
func (s *customerService) SetRecareDate(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, recareDate *time.Time) error {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if customer.IsLongTerm && recareDate == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("long-term customers need a return date")
	}

	if recareDate != nil {
		today := util.StartOfDay(time.Now(), time.Local)
		day := util.StartOfDay(*recareDate, time.Local)
		if customer.IsLongTerm {
			if day.Before(today.AddDate(0, 0, longTermMinLeadDays)) {
				return domainerrors.ErrValidationFailed.WrapMessage(
					fmt.Sprintf("long-term return date must be at least %d days out", longTermMinLeadDays))
			}
		} else if day.Before(today) || day.After(today.AddDate(0, 0, recareWindowDays)) {
			return domainerrors.ErrValidationFailed.WrapMessage(
				fmt.Sprintf("recare date must fall within the next %d days", recareWindowDays))
		}
	}

	customer.RecareDate = recareDate

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// SetSpecialCare toggles daily follow-up.
func (s *customerService) SetSpecialCare(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, enabled bool) error {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if enabled {
		customer.EnableSpecialCare(time.Now())
	} else {
		customer.DisableSpecialCare()
	}

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// SetLongTerm toggles slow-burn care with its mandatory return date.
func (s *customerService) SetLongTerm(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, enabled bool, returnDate *time.Time) error {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if enabled {
		if returnDate == nil {
			return domainerrors.ErrValidationFailed.WrapMessage("long-term care needs a return date")
		}
		earliest := time.Now().AddDate(0, 0, longTermMinLeadDays)
		if returnDate.Before(util.StartOfDay(earliest, time.Local)) {
			return domainerrors.ErrValidationFailed.WrapMessage(
				fmt.Sprintf("return date must be at least %d days out", longTermMinLeadDays))
		}
		customer.EnableLongTerm(*returnDate)
	} else {
		customer.DisableLongTerm()
	}

	return s.customerRepo.SaveCustomer(ctx, customer)
}

// AddNote appends a rep-written note to the history.
func (s *customerService) AddNote(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, content string) (*entity.Interaction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("note content is empty")
	}

	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	interaction := &entity.Interaction{
		CustomerID: customer.ID,
		UserID:     actor.ID,
		UserName:   actor.FullName,
		Type:       entity.InteractionNote,
		Content:    content,
	}
	if err := s.interactionRepo.CreateInteraction(ctx, interaction); err != nil {
		return nil, err
	}

	return interaction, nil
}

// ShareCustomer grants or updates another user's capability.
func (s *customerService) ShareCustomer(ctx context.Context, actor *entity.UserProfile, customerID, targetUserID uuid.UUID, permission entity.SharePermission) error {
	if permission != entity.PermissionView && permission != entity.PermissionEdit {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown share permission")
	}
	if targetUserID == actor.ID {
		return domainerrors.ErrValidationFailed.WrapMessage("cannot share a customer with yourself")
	}

	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	target, err := s.profileRepo.FindProfileByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if !actor.Role.IsElevated() && !withinReach(actor, target) {
		return domainerrors.ErrAccessDenied
	}

	share := &entity.CustomerShare{
		CustomerID: customer.ID,
		SharedBy:   actor.ID,
		SharedWith: target.ID,
		Permission: permission,
	}
	if err := s.shareRepo.UpsertShare(ctx, share); err != nil {
		return err
	}

	s.recordSystemNote(ctx, customer, actor,
		fmt.Sprintf("Chia sẻ khách hàng cho %s (quyền %s)", target.FullName, permission))

	return nil
}

// RevokeShare removes a previously granted share.
func (s *customerService) RevokeShare(ctx context.Context, actor *entity.UserProfile, customerID, targetUserID uuid.UUID) error {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return err
	}

	if err := s.shareRepo.DeleteShare(ctx, customer.ID, targetUserID); err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return domainerrors.ErrShareNotFound
		}
		return err
	}

	return nil
}

// ListShares returns the shares on a customer.
func (s *customerService) ListShares(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) ([]*entity.CustomerShare, error) {
	customer, _, err := s.loadWithEdit(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	return s.shareRepo.ListSharesByCustomer(ctx, customer.ID)
}

// RequestTransfer flags a duplicate for hand-over to the actor.
func (s *customerService) RequestTransfer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return mapCustomerNotFound(err)
	}

	if customer.CreatorID == actor.ID || customer.IsAssignedTo(actor.ID) {
		return domainerrors.ErrValidationFailed.WrapMessage("customer is already yours")
	}
	if customer.PendingTransferTo != nil {
		return domainerrors.ErrValidationFailed.WrapMessage("a transfer request is already pending")
	}

	customer.PendingTransferTo = &actor.ID
	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	s.recordSystemNote(ctx, customer, actor,
		fmt.Sprintf("%s yêu cầu nhận lại khách hàng (trùng số điện thoại)", actor.FullName))

	return nil
}

// ContactQR renders the customer's contact card as a QR PNG.
func (s *customerService) ContactQR(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) ([]byte, error) {
	customer, _, err := s.loadWithAccess(ctx, actor, customerID)
	if err != nil {
		return nil, err
	}

	return s.qrcodeService.GenerateContactQR(customer)
}

// DeleteCustomer removes a customer and every dependent row in one transaction.
func (s *customerService) DeleteCustomer(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) error {
	if actor.Role != entity.RoleAdmin {
		return domainerrors.ErrElevatedOnly
	}

	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return mapCustomerNotFound(err)
	}

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.NewTransactionRepository().DeleteTransactionsByCustomer(ctx, customerID); err != nil {
			return err
		}
		if err := factory.NewInteractionRepository().DeleteInteractionsByCustomer(ctx, customerID); err != nil {
			return err
		}
		if err := factory.NewShareRepository().DeleteSharesByCustomer(ctx, customerID); err != nil {
			return err
		}

		return factory.NewCustomerRepository().DeleteCustomer(ctx, customerID)
	})
}

// RepairAssignedReps backfills assigned_rep_id on legacy rows by matching the
// free-text rep name against active profiles.
func (s *customerService) RepairAssignedReps(ctx context.Context, actor *entity.UserProfile) (int, error) {
	if actor.Role != entity.RoleAdmin {
		return 0, domainerrors.ErrElevatedOnly
	}

	orphans, err := s.customerRepo.ListCustomersWithoutAssignedRep(ctx)
	if err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	profiles, err := s.profileRepo.ListActiveProfiles(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, customer := range orphans {
		match := matchProfileByName(profiles, customer.SalesRep)
		if match == nil {
			continue
		}

		customer.AssignedRepID = &match.ID
		customer.SalesRep = match.FullName
		if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
			s.logger.Warn("failed to repair assigned rep",
				slog.String("customer_id", customer.ID.String()),
				slog.Any("error", err))
			continue
		}
		repaired++
	}

	return repaired, nil
}

// ScanDuplicates groups customers sharing a normalized primary phone so an
// elevated reviewer can merge or prune them.
func (s *customerService) ScanDuplicates(ctx context.Context, actor *entity.UserProfile) ([]*usecase.DuplicateGroup, error) {
	if !actor.Role.IsElevated() {
		return nil, domainerrors.ErrElevatedOnly
	}

	customers, err := s.customerRepo.ListCustomers(ctx, repository.CustomerListFilter{})
	if err != nil {
		return nil, err
	}

	byPhone := make(map[string][]*entity.Customer)
	var order []string
	for _, customer := range customers {
		if customer.Phone == "" {
			continue
		}
		if _, seen := byPhone[customer.Phone]; !seen {
			order = append(order, customer.Phone)
		}
		byPhone[customer.Phone] = append(byPhone[customer.Phone], customer)
	}

	groups := make([]*usecase.DuplicateGroup, 0)
	for _, phone := range order {
		if len(byPhone[phone]) < 2 {
			continue
		}
		groups = append(groups, &usecase.DuplicateGroup{Phone: phone, Customers: byPhone[phone]})
	}

	return groups, nil
}

// loadWithAccess loads a customer and resolves the actor's view capability,
// decorating the entity with the per-viewer access metadata.
func (s *customerService) loadWithAccess(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*entity.Customer, *usecase.AccessResult, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, nil, mapCustomerNotFound(err)
	}

	access, err := s.accessUsecase.Resolve(ctx, actor, customer)
	if err != nil {
		return nil, nil, err
	}

	customer.SharedPermission = access.Permission
	customer.IsDelegated = access.ViaDelegation

	return customer, access, nil
}

// loadWithEdit is loadWithAccess plus an edit requirement.
func (s *customerService) loadWithEdit(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*entity.Customer, *usecase.AccessResult, error) {
	customer, access, err := s.loadWithAccess(ctx, actor, customerID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanEdit() {
		return nil, nil, domainerrors.ErrEditDenied
	}

	return customer, access, nil
}

// resolveAssignee picks the responsible rep for a new lead, defaulting to
// the creator when no explicit assignment is given.
func (s *customerService) resolveAssignee(ctx context.Context, actor *entity.UserProfile, assignedRepID *uuid.UUID) (*entity.UserProfile, error) {
	if assignedRepID == nil || *assignedRepID == actor.ID {
		return actor, nil
	}

	assignee, err := s.profileRepo.FindProfileByID(ctx, *assignedRepID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, domainerrors.ErrProfileNotFound
		}
		return nil, err
	}
	if !actor.Role.IsElevated() && !withinReach(actor, assignee) {
		return nil, domainerrors.ErrAccessDenied
	}

	return assignee, nil
}

// describeDuplicate builds the duplicate summary shown to the blocked rep.
func (s *customerService) describeDuplicate(ctx context.Context, existing *entity.Customer) *usecase.DuplicateCustomer {
	dup := &usecase.DuplicateCustomer{
		CustomerID: existing.ID,
		OwnerName:  existing.SalesRep,
	}
	if existing.AssignedRepID != nil {
		dup.OwnerID = existing.AssignedRepID
	} else {
		creatorID := existing.CreatorID
		dup.OwnerID = &creatorID
	}
	if dup.OwnerName == "" && dup.OwnerID != nil {
		if owner, err := s.profileRepo.FindProfileByID(ctx, *dup.OwnerID); err == nil {
			dup.OwnerName = owner.FullName
		}
	}

	return dup
}

// publishLeadEvent fires the intake event. Failures are logged, never
// surfaced; the lead is already saved.
func (s *customerService) publishLeadEvent(ctx context.Context, customer *entity.Customer, actor, assignee *entity.UserProfile) {
	event := &service.LeadEvent{
		RequestID:    uuid.NewString(),
		CustomerID:   customer.ID.String(),
		Name:         customer.Name,
		Phone:        customer.Phone,
		Interest:     customer.Interest,
		Location:     customer.Location,
		Source:       customer.Source,
		Notes:        customer.Notes,
		CreatorName:  actor.FullName,
		AssigneeName: assignee.FullName,
	}
	if assignee.ID != actor.ID {
		event.AssigneeEmail = assignee.Email
	}

	if err := s.eventPublisher.PublishLeadEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish lead event",
			slog.String("customer_id", customer.ID.String()),
			slog.Any("error", err))
	}
}

// recordSystemNote appends an audit entry, logging instead of failing when
// the write goes sideways.
func (s *customerService) recordSystemNote(ctx context.Context, customer *entity.Customer, actor *entity.UserProfile, content string) {
	note := entity.NewSystemInteraction(customer.ID, actor.ID, actor.FullName, content)
	if err := s.interactionRepo.CreateInteraction(ctx, note); err != nil {
		s.logger.Warn("failed to record audit note",
			slog.String("customer_id", customer.ID.String()),
			slog.Any("error", err))
	}
}

// withinReach reports whether target sits inside the actor's slice of the
// org chart: their manager, a teammate under the same manager, or a direct
// report.
func withinReach(actor, target *entity.UserProfile) bool {
	if target == nil || !target.CanSignIn() {
		return false
	}
	if actor.ManagerID != nil && *actor.ManagerID == target.ID {
		return true
	}
	if actor.ManagerID != nil && target.ManagerID != nil && *actor.ManagerID == *target.ManagerID {
		return true
	}
	if target.ManagerID != nil && *target.ManagerID == actor.ID {
		return true
	}

	return false
}

// Listing tabs layered over the stored lifecycle statuses. They never hit
// the database; they resolve against care flags on the fetched window.
const (
	tabDue            entity.CustomerStatus = "due"
	tabOverdue        entity.CustomerStatus = "overdue"
	tabLongTerm       entity.CustomerStatus = "long_term"
	tabUnacknowledged entity.CustomerStatus = "unacknowledged"
)

func isStoredStatus(status entity.CustomerStatus) bool {
	switch status {
	case tabDue, tabOverdue, tabLongTerm, tabUnacknowledged:
		return false
	}

	return true
}

func storedStatusesOnly(statuses []entity.CustomerStatus) bool {
	for _, status := range statuses {
		if !isStoredStatus(status) {
			return false
		}
	}

	return true
}

func matchesStatusTab(c *entity.Customer, status entity.CustomerStatus, now time.Time) bool {
	switch status {
	case tabDue:
		return c.RecareDue(now)
	case tabOverdue:
		return c.RecareDate != nil && c.RecareDate.Before(util.StartOfDay(now, time.Local))
	case tabLongTerm:
		return c.IsLongTerm
	case tabUnacknowledged:
		return !c.IsAcknowledged
	default:
		return c.Status == status
	}
}

func filterByStatusTabs(customers []*entity.Customer, statuses []entity.CustomerStatus, now time.Time) []*entity.Customer {
	if len(statuses) == 0 {
		return customers
	}

	filtered := make([]*entity.Customer, 0, len(customers))
	for _, c := range customers {
		for _, status := range statuses {
			if matchesStatusTab(c, status, now) {
				filtered = append(filtered, c)
				break
			}
		}
	}

	return filtered
}

// filterBySearch matches names accent-insensitively and phones by substring.
func filterBySearch(customers []*entity.Customer, search string) []*entity.Customer {
	needle := util.NormalizeName(search)
	filtered := make([]*entity.Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(util.NormalizeName(c.Name), needle) ||
			strings.Contains(c.Phone, search) ||
			strings.Contains(c.SecondaryPhone, search) {
			filtered = append(filtered, c)
		}
	}

	return filtered
}

func paginate(customers []*entity.Customer, page, pageSize int) []*entity.Customer {
	if pageSize <= 0 {
		return customers
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start >= len(customers) {
		return []*entity.Customer{}
	}
	end := start + pageSize
	if end > len(customers) {
		end = len(customers)
	}

	return customers[start:end]
}

// matchProfileByName resolves a legacy free-text rep name to a profile,
// tolerating accents and partial name forms.
func matchProfileByName(profiles []*entity.UserProfile, salesRep string) *entity.UserProfile {
	if strings.TrimSpace(salesRep) == "" {
		return nil
	}

	var match *entity.UserProfile
	for _, p := range profiles {
		if util.NamesMatch(p.FullName, salesRep) {
			if match != nil {
				// Ambiguous name, leave the row for a human.
				return nil
			}
			match = p
		}
	}

	return match
}
