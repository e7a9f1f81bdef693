package cron

import (
	"context"
	"fmt"

	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

const generationJobName = "order-generation"

type scheduleResolver interface {
	ResolveConfig(ctx context.Context) (schedule.Config, error)
}

type batchGenerator interface {
	GenerateForActiveCycle(ctx context.Context, performedBy string) (*generation.Result, error)
}

type runNotifier interface {
	NotifyRunCompleted(result *generation.Result)
	NotifyRunFailure(runErr error)
}

// GenerationJobParams configure the scheduled order-generation job.
type GenerationJobParams struct {
	Logger      *logger.Logger
	Schedule    scheduleResolver
	Batch       batchGenerator
	Notifier    runNotifier
	PerformedBy string
}

type generationJob struct {
	logg        *logger.Logger
	schedule    scheduleResolver
	batch       batchGenerator
	notifier    runNotifier
	performedBy string
}

// NewGenerationJob builds the cron job that materializes orders for the
// active delivery cycle.
func NewGenerationJob(params GenerationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Schedule == nil {
		return nil, fmt.Errorf("schedule resolver required")
	}
	if params.Batch == nil {
		return nil, fmt.Errorf("batch generator required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	performedBy := params.PerformedBy
	if performedBy == "" {
		performedBy = "scheduler"
	}
	return &generationJob{
		logg:        params.Logger,
		schedule:    params.Schedule,
		batch:       params.Batch,
		notifier:    params.Notifier,
		performedBy: performedBy,
	}, nil
}

func (j *generationJob) Name() string { return generationJobName }

// Run generates orders for the active cycle. Per-subscription failures
// stay inside the run summary; only run-level failures surface as a job
// error and trigger the failure notification.
func (j *generationJob) Run(ctx context.Context) error {
	cfg, err := j.schedule.ResolveConfig(ctx)
	if err != nil {
		return fmt.Errorf("resolving schedule config: %w", err)
	}
	if !cfg.SubscriptionEnabled {
		j.logg.Info(ctx, "subscriptions disabled, skipping generation")
		return nil
	}

	result, err := j.batch.GenerateForActiveCycle(ctx, j.performedBy)
	if err != nil {
		j.notifier.NotifyRunFailure(err)
		return fmt.Errorf("generating orders: %w", err)
	}

	j.notifier.NotifyRunCompleted(result)
	return nil
}
