package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
	"github.com/bloomcrate/bloomcrate-backend/pkg/metrics"
)

type subscriptionLister interface {
	ListForGeneration(ctx context.Context) ([]models.Subscription, error)
}

type eligibleCycleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryCycle, error)
	FindEarliestEligible(ctx context.Context, now time.Time) (*models.DeliveryCycle, error)
}

type planChecker interface {
	PlanEnabled(ctx context.Context, boxType string) (bool, error)
}

type orderGenerator interface {
	GenerateOrder(ctx context.Context, subscriptionID, cycleID uuid.UUID, performedBy string, lateAddition bool) (bool, error)
}

// Batch fans order materialization out across all subscriptions of a
// cycle, aggregating a partial-failure-tolerant summary. Subscriptions
// are processed strictly sequentially; one failing subscription never
// aborts the run.
type Batch struct {
	cycles        eligibleCycleFinder
	subscriptions subscriptionLister
	plans         planChecker
	materializer  orderGenerator
	metrics       *metrics.GenerationMetrics
	logg          *logger.Logger
	now           func() time.Time
}

// BatchParams carries the batch generator dependencies.
type BatchParams struct {
	Cycles        eligibleCycleFinder
	Subscriptions subscriptionLister
	Plans         planChecker
	Materializer  orderGenerator
	Metrics       *metrics.GenerationMetrics
	Logger        *logger.Logger
	Now           func() time.Time
}

// NewBatch wires the batch order generator.
func NewBatch(params BatchParams) (*Batch, error) {
	if params.Cycles == nil {
		return nil, fmt.Errorf("cycles store is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions store is required")
	}
	if params.Plans == nil {
		return nil, fmt.Errorf("plan checker is required")
	}
	if params.Materializer == nil {
		return nil, fmt.Errorf("materializer is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Batch{
		cycles:        params.Cycles,
		subscriptions: params.Subscriptions,
		plans:         params.Plans,
		materializer:  params.Materializer,
		metrics:       params.Metrics,
		logg:          params.Logger,
		now:           now,
	}, nil
}

// GenerateForActiveCycle auto-detects the earliest upcoming cycle whose
// delivery date has arrived. Finding none is a normal outcome and yields
// an empty result, not an error.
func (b *Batch) GenerateForActiveCycle(ctx context.Context, performedBy string) (*Result, error) {
	cycle, err := b.cycles.FindEarliestEligible(ctx, b.now())
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		b.logg.Info(ctx, "no eligible delivery cycle, nothing to generate")
		return &Result{Message: "no eligible delivery cycle"}, nil
	}
	return b.generateForCycle(ctx, cycle, performedBy, "scheduled")
}

// GenerateForCycle runs generation for an explicitly chosen cycle. The
// cycle must exist regardless of status or date, or the call fails fast
// before any subscription is processed.
func (b *Batch) GenerateForCycle(ctx context.Context, cycleID uuid.UUID, performedBy string) (*Result, error) {
	cycle, err := b.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return b.generateForCycle(ctx, cycle, performedBy, "manual")
}

func (b *Batch) generateForCycle(ctx context.Context, cycle *models.DeliveryCycle, performedBy, trigger string) (*Result, error) {
	ctx = b.logg.WithCycleID(ctx, cycle.ID.String())

	subs, err := b.subscriptions.ListForGeneration(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		CycleID:   &cycle.ID,
		CycleDate: &cycle.DeliveryDate,
	}

	for _, sub := range subs {
		switch b.classify(ctx, sub, cycle) {
		case classExcluded:
			result.Excluded++
			continue
		case classFailed:
			// Exclusion-rule lookup itself failed.
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, ErrorDetail{
				SubscriptionID: sub.ID,
				Error:          "box plan lookup failed",
			})
			continue
		}

		created, err := b.materializer.GenerateOrder(ctx, sub.ID, cycle.ID, performedBy, false)
		if err != nil {
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, ErrorDetail{
				SubscriptionID: sub.ID,
				Error:          err.Error(),
			})
			b.logg.Error(ctx, "subscription failed during generation", err)
			continue
		}
		if created {
			result.Generated++
		} else {
			result.Skipped++
		}
	}

	outcome := "success"
	if result.HasFailures() {
		outcome = "partial"
	}
	b.metrics.ObserveRun(trigger, outcome, result.Generated, result.Skipped, result.Excluded, result.Errors)

	ctx = b.logg.WithFields(ctx, map[string]any{
		"generated": result.Generated,
		"skipped":   result.Skipped,
		"excluded":  result.Excluded,
		"errors":    result.Errors,
	})
	b.logg.Info(ctx, "generation run completed")

	return result, nil
}

type classification int

const (
	classEligible classification = iota
	classExcluded
	classFailed
)

// classify applies the exclusion rules: only active subscriptions with a
// currently sold box type participate, and one-time subscriptions that
// were already delivered for another cycle are done.
func (b *Batch) classify(ctx context.Context, sub models.Subscription, cycle *models.DeliveryCycle) classification {
	if sub.Status != enums.SubscriptionStatusActive {
		return classExcluded
	}

	if sub.Frequency == enums.FrequencyOneTime &&
		sub.LastDeliveredCycleID != nil && *sub.LastDeliveredCycleID != cycle.ID {
		return classExcluded
	}

	enabled, err := b.plans.PlanEnabled(ctx, sub.BoxType)
	if err != nil {
		return classFailed
	}
	if !enabled {
		return classExcluded
	}

	return classEligible
}
