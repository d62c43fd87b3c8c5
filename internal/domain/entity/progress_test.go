package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "autocrm/internal/domain/errors"
)

func TestApplicableSteps_CashSkipsBankApproval(t *testing.T) {
	t.Parallel()

	cash := ApplicableSteps(&DealDetails{PaymentMethod: PaymentCash})
	bank := ApplicableSteps(&DealDetails{PaymentMethod: PaymentBank})

	assert.Len(t, cash, 9)
	assert.Len(t, bank, 10)
	for _, step := range cash {
		assert.NotEqual(t, "bank_approved", step.Key)
	}
}

func TestPercent_RoundsOverApplicableSteps(t *testing.T) {
	t.Parallel()

	now := time.Now()
	p := DeliveryProgress{
		"deposited":       {Completed: true, Timestamp: &now},
		"contract_signed": {Completed: true, Timestamp: &now},
	}

	// 2 of 9 cash steps.
	assert.Equal(t, 22, p.Percent(&DealDetails{PaymentMethod: PaymentCash}))
	// 2 of 10 bank steps.
	assert.Equal(t, 20, p.Percent(&DealDetails{PaymentMethod: PaymentBank}))
}

func TestToggle_ForwardOnly(t *testing.T) {
	t.Parallel()

	details := &DealDetails{PaymentMethod: PaymentCash}
	p := DeliveryProgress{}
	now := time.Now()

	err := p.Toggle(details, "contract_signed", now)
	assert.ErrorIs(t, err, domainerrors.ErrStepOrderViolated)

	require.NoError(t, p.Toggle(details, "deposited", now))
	require.NoError(t, p.Toggle(details, "contract_signed", now))

	// Unchecking a step with completed successors is refused.
	err = p.Toggle(details, "deposited", now)
	assert.ErrorIs(t, err, domainerrors.ErrStepOrderViolated)

	require.NoError(t, p.Toggle(details, "contract_signed", now))
	require.NoError(t, p.Toggle(details, "deposited", now))
	assert.False(t, p["deposited"].Completed)
}

func TestToggle_TimestampSurvivesUncheck(t *testing.T) {
	t.Parallel()

	details := &DealDetails{PaymentMethod: PaymentCash}
	p := DeliveryProgress{}
	first := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(72 * time.Hour)

	require.NoError(t, p.Toggle(details, "deposited", first))
	require.NoError(t, p.Toggle(details, "deposited", later)) // uncheck
	require.NoError(t, p.Toggle(details, "deposited", later)) // recheck

	require.NotNil(t, p["deposited"].Timestamp)
	assert.Equal(t, first, *p["deposited"].Timestamp)
}

func TestToggle_RejectsUnknownAndInapplicableSteps(t *testing.T) {
	t.Parallel()

	p := DeliveryProgress{}
	now := time.Now()

	err := p.Toggle(&DealDetails{PaymentMethod: PaymentCash}, "bank_approved", now)
	assert.ErrorIs(t, err, domainerrors.ErrStepNotApplicable)

	err = p.Toggle(&DealDetails{PaymentMethod: PaymentCash}, "car_wash", now)
	assert.ErrorIs(t, err, domainerrors.ErrUnknownProgressStep)
}

func TestForceComplete_StampsEverythingOnce(t *testing.T) {
	t.Parallel()

	details := &DealDetails{PaymentMethod: PaymentCash}
	earlier := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	now := earlier.Add(5 * 24 * time.Hour)
	p := DeliveryProgress{
		"deposited": {Completed: true, Timestamp: &earlier},
	}

	p.ForceComplete(details, now)

	for _, step := range ApplicableSteps(details) {
		assert.True(t, p[step.Key].Completed, step.Key)
		require.NotNil(t, p[step.Key].Timestamp, step.Key)
	}
	assert.Equal(t, earlier, *p["deposited"].Timestamp)
	assert.Equal(t, now, *p["handover"].Timestamp)
	assert.Equal(t, 100, p.Percent(details))

	// bank_approved is not on a cash checklist and stays untouched.
	assert.False(t, p["bank_approved"].Completed)
}

func TestEarliestCompletedAt_IgnoresUncheckedStamps(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	p := DeliveryProgress{
		// Stamped once, then unchecked: must not anchor aging anymore.
		"deposited":       {Completed: false, Timestamp: &first},
		"contract_signed": {Completed: true, Timestamp: &second},
	}

	earliest := p.EarliestCompletedAt()
	require.NotNil(t, earliest)
	assert.Equal(t, second, *earliest)

	none := DeliveryProgress{"deposited": {Completed: false, Timestamp: &first}}
	assert.Nil(t, none.EarliestCompletedAt())
}

func TestDeliveryReferenceDate_Priority(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	stepAt := created.Add(48 * time.Hour)
	wonAt := created.Add(96 * time.Hour)

	c := &Customer{CreatedAt: created, DeliveryProgress: DeliveryProgress{}}
	assert.Equal(t, created, c.DeliveryReferenceDate())

	c.DeliveryProgress["deposited"] = ProgressStep{Completed: true, Timestamp: &stepAt}
	assert.Equal(t, stepAt, c.DeliveryReferenceDate())

	c.WonAt = &wonAt
	assert.Equal(t, wonAt, c.DeliveryReferenceDate())
}

func TestDeliveryDaysElapsed(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	c := &Customer{CreatedAt: created}

	assert.Equal(t, 11, c.DeliveryDaysElapsed(created.Add(11*24*time.Hour+time.Hour)))
	assert.Equal(t, 0, c.DeliveryDaysElapsed(created.Add(-time.Hour)))
}
