package cycles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

type fakeCycleFinder struct {
	upcoming  *models.DeliveryCycle
	delivered *models.DeliveryCycle
	err       error
}

func (f *fakeCycleFinder) FindNextUpcoming(context.Context) (*models.DeliveryCycle, error) {
	return f.upcoming, f.err
}

func (f *fakeCycleFinder) FindLatestDelivered(context.Context) (*models.DeliveryCycle, error) {
	return f.delivered, f.err
}

func TestNewResolverRequiresCycles(t *testing.T) {
	_, err := NewResolver(ResolverParams{})
	require.Error(t, err)
}

func TestDetermineFirstCyclePrefersUpcoming(t *testing.T) {
	upcoming := &models.DeliveryCycle{
		ID:           uuid.New(),
		Status:       enums.CycleStatusUpcoming,
		DeliveryDate: time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC),
	}
	delivered := &models.DeliveryCycle{
		ID:           uuid.New(),
		Status:       enums.CycleStatusDelivered,
		DeliveryDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	resolver, err := NewResolver(ResolverParams{Cycles: &fakeCycleFinder{upcoming: upcoming, delivered: delivered}})
	require.NoError(t, err)

	assignment, err := resolver.DetermineFirstCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, upcoming.ID, assignment.CycleID)
	assert.False(t, assignment.NeedsImmediateOrder)
}

func TestDetermineFirstCycleLateJoinUsesDelivered(t *testing.T) {
	delivered := &models.DeliveryCycle{
		ID:           uuid.New(),
		Status:       enums.CycleStatusDelivered,
		DeliveryDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	resolver, err := NewResolver(ResolverParams{Cycles: &fakeCycleFinder{delivered: delivered}})
	require.NoError(t, err)

	assignment, err := resolver.DetermineFirstCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, delivered.ID, assignment.CycleID)
	assert.True(t, assignment.NeedsImmediateOrder)
}

func TestDetermineFirstCycleNoCycleAvailable(t *testing.T) {
	resolver, err := NewResolver(ResolverParams{Cycles: &fakeCycleFinder{}})
	require.NoError(t, err)

	_, err = resolver.DetermineFirstCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodePrecondition, errors.CodeOf(err))
}
