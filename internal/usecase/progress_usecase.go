package usecase

import (
	"context"
	"time"

	"autocrm/internal/domain/entity"

	"github.com/google/uuid"
)

// StepView is one delivery checklist row as shown to the client.
type StepView struct {
	Key         string
	Label       string
	Completed   bool
	CompletedAt *time.Time
}

// ProgressView is the full delivery checklist plus the completion percent.
type ProgressView struct {
	Steps   []StepView
	Percent int
}

// MonitorItem is one row on the delivery monitoring board.
type MonitorItem struct {
	CustomerID   uuid.UUID
	Name         string
	Phone        string
	SalesRep     string
	DaysElapsed  int
	Percent      int
	AwaitingCar  bool
	FinanceDone  bool
}

// MonitorView buckets won deals by delivery health.
type MonitorView struct {
	Waiting []MonitorItem
	Early   []MonitorItem
	Late    []MonitorItem
}

// ProgressUsecase tracks the post-win delivery checklist.
type ProgressUsecase interface {
	// GetProgress returns the checklist for one won customer.
	GetProgress(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID) (*ProgressView, error)

	// ToggleStep flips one checklist step. Steps complete strictly in order
	// and first completion timestamps stick across later unchecks.
	ToggleStep(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, stepKey string) (*ProgressView, error)

	// SetCarAvailability switches the deal between in-stock and waiting.
	// Switching to waiting resets the delivery checklist.
	SetCarAvailability(ctx context.Context, actor *entity.UserProfile, customerID uuid.UUID, availability string) error

	// Monitor returns the delivery board split into waiting-for-stock,
	// on-schedule and overdue buckets. Elevated only.
	Monitor(ctx context.Context, actor *entity.UserProfile) (*MonitorView, error)
}
