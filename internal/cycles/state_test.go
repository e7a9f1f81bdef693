package cycles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

func TestComputeStateUpcomingCycle(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)
	cycle := models.DeliveryCycle{
		DeliveryDate: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:       enums.CycleStatusUpcoming,
	}

	state := ComputeState(cycle, now)

	assert.False(t, state.IsPast)
	assert.True(t, state.IsUpcoming)
	assert.True(t, state.CanMarkDelivered)
	assert.False(t, state.CanReveal)
	require.NotNil(t, state.DaysUntilDelivery)
	assert.Equal(t, 5, *state.DaysUntilDelivery)
	assert.Equal(t, "15.03.2026", state.DeliveryDateLabel)
}

func TestComputeStateDeliveredUnrevealed(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	cycle := models.DeliveryCycle{
		DeliveryDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:       enums.CycleStatusDelivered,
		IsRevealed:   false,
	}

	state := ComputeState(cycle, now)

	assert.True(t, state.IsPast)
	assert.False(t, state.IsUpcoming)
	assert.True(t, state.CanReveal)
	assert.False(t, state.CanMarkDelivered)
	assert.Nil(t, state.DaysUntilDelivery)
}

func TestComputeStateRevealedCycle(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	cycle := models.DeliveryCycle{
		DeliveryDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:       enums.CycleStatusDelivered,
		IsRevealed:   true,
	}

	state := ComputeState(cycle, now)

	assert.True(t, state.IsRevealed)
	assert.False(t, state.CanReveal)
}

func TestComputeStateDeliveryToday(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)
	cycle := models.DeliveryCycle{
		DeliveryDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:       enums.CycleStatusUpcoming,
	}

	state := ComputeState(cycle, now)

	assert.False(t, state.IsPast)
	assert.True(t, state.IsUpcoming)
	require.NotNil(t, state.DaysUntilDelivery)
	assert.Equal(t, 0, *state.DaysUntilDelivery)
}
