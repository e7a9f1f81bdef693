package subscriptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type cycleResolver interface {
	DetermineFirstCycle(ctx context.Context) (cycles.Assignment, error)
}

type orderMaterializer interface {
	GenerateOrder(ctx context.Context, subscriptionID, cycleID uuid.UUID, performedBy string, lateAddition bool) (bool, error)
}

type historyAppender interface {
	Append(ctx context.Context, subscriptionID uuid.UUID, action enums.HistoryAction, details any, performedBy string) error
}

// CreateParams is the input for a new subscription.
type CreateParams struct {
	UserID           uuid.UUID
	BoxType          string
	Frequency        enums.Frequency
	DefaultAddressID *uuid.UUID
	Preferences      []string
	PromoCode        *string
	PerformedBy      string
}

// Service owns subscription creation, including initial cycle assignment
// and the late-join order path.
type Service struct {
	repo         *Repository
	resolver     cycleResolver
	materializer orderMaterializer
	history      historyAppender
	logg         *logger.Logger
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo         *Repository
	Resolver     cycleResolver
	Materializer orderMaterializer
	History      historyAppender
	Logger       *logger.Logger
}

// NewService wires the subscription service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("cycle resolver is required")
	}
	if params.Materializer == nil {
		return nil, fmt.Errorf("materializer is required")
	}
	if params.History == nil {
		return nil, fmt.Errorf("history appender is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{
		repo:         params.Repo,
		resolver:     params.Resolver,
		materializer: params.Materializer,
		history:      params.History,
		logg:         params.Logger,
	}, nil
}

// Create persists a subscription and attaches it to its first delivery
// cycle. When the chosen cycle was already generated (late join), the
// order is materialized immediately instead of waiting for the next batch
// run. When no cycle exists at all the subscription is still created and
// assignment is deferred until a cycle becomes available.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Subscription, error) {
	if params.BoxType == "" {
		return nil, errors.New(errors.CodeValidation, "box type is required")
	}
	if !params.Frequency.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid frequency")
	}

	sub := &models.Subscription{
		ID:               uuid.New(),
		UserID:           params.UserID,
		BoxType:          params.BoxType,
		Frequency:        params.Frequency,
		Status:           enums.SubscriptionStatusActive,
		DefaultAddressID: params.DefaultAddressID,
		Preferences:      pq.StringArray(params.Preferences),
		PromoCode:        params.PromoCode,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	ctx = s.logg.WithSubscriptionID(ctx, sub.ID.String())

	if err := s.history.Append(ctx, sub.ID, enums.HistoryActionSubscriptionCreated, map[string]any{
		"box_type":  sub.BoxType,
		"frequency": sub.Frequency,
	}, params.PerformedBy); err != nil {
		s.logg.Error(ctx, "recording subscription creation", err)
	}

	assignment, err := s.resolver.DetermineFirstCycle(ctx)
	if err != nil {
		if errors.CodeOf(err) == errors.CodePrecondition {
			s.logg.Warn(ctx, "no delivery cycle available, deferring assignment")
			return sub, nil
		}
		return nil, err
	}

	if err := s.repo.SetFirstCycle(ctx, sub.ID, assignment.CycleID); err != nil {
		return nil, err
	}
	sub.FirstCycleID = &assignment.CycleID

	if err := s.history.Append(ctx, sub.ID, enums.HistoryActionCycleAssigned, map[string]any{
		"cycle_id":              assignment.CycleID,
		"needs_immediate_order": assignment.NeedsImmediateOrder,
	}, params.PerformedBy); err != nil {
		s.logg.Error(ctx, "recording cycle assignment", err)
	}

	if assignment.NeedsImmediateOrder {
		if _, err := s.materializer.GenerateOrder(ctx, sub.ID, assignment.CycleID, params.PerformedBy, true); err != nil {
			// The subscription stands; the late-join order can be retried
			// through the admin trigger.
			s.logg.Error(ctx, "late-join order generation failed", err)
		}
	}

	return sub, nil
}
