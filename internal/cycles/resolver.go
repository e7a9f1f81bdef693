package cycles

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

// Assignment is the outcome of picking an initial cycle for a new
// subscription. NeedsImmediateOrder signals the batch run already passed
// for the chosen cycle, so the subscriber must be materialized directly.
type Assignment struct {
	CycleID             uuid.UUID
	NeedsImmediateOrder bool
}

type cycleFinder interface {
	FindNextUpcoming(ctx context.Context) (*models.DeliveryCycle, error)
	FindLatestDelivered(ctx context.Context) (*models.DeliveryCycle, error)
}

// Resolver picks the initial cycle for new subscriptions.
type Resolver struct {
	cycles cycleFinder
}

// ResolverParams carries the resolver dependencies.
type ResolverParams struct {
	Cycles cycleFinder
}

// NewResolver wires the assignment resolver.
func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Cycles == nil {
		return nil, fmt.Errorf("cycles repository is required")
	}
	return &Resolver{cycles: params.Cycles}, nil
}

// DetermineFirstCycle resolves the cycle a new subscription joins. An
// upcoming cycle wins; otherwise the latest delivered cycle is used with
// an immediate-order flag. With neither available the caller must defer
// assignment.
func (r *Resolver) DetermineFirstCycle(ctx context.Context) (Assignment, error) {
	upcoming, err := r.cycles.FindNextUpcoming(ctx)
	if err != nil {
		return Assignment{}, err
	}
	if upcoming != nil {
		return Assignment{CycleID: upcoming.ID}, nil
	}

	delivered, err := r.cycles.FindLatestDelivered(ctx)
	if err != nil {
		return Assignment{}, err
	}
	if delivered != nil {
		return Assignment{CycleID: delivered.ID, NeedsImmediateOrder: true}, nil
	}

	return Assignment{}, errors.New(errors.CodePrecondition, "no delivery cycle available")
}
