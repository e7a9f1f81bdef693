package generation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/internal/addresses"
	"github.com/bloomcrate/bloomcrate-backend/internal/history"
	"github.com/bloomcrate/bloomcrate-backend/internal/identity"
	"github.com/bloomcrate/bloomcrate-backend/internal/pricing"
	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

const uniqueOrderConstraint = "uq_orders_subscription_cycle"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type subscriptionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
}

type cycleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryCycle, error)
}

type addressStore interface {
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Address, error)
}

type priceCalculator interface {
	Calculate(ctx context.Context, boxType string, promoCode *string) (pricing.Quote, error)
}

type identityStore interface {
	Lookup(ctx context.Context, userID uuid.UUID) (*identity.Customer, error)
}

// Materializer turns one (subscription, cycle) pair into a persisted
// order, exactly once. The order insert, the subscription update and the
// audit entry commit atomically.
type Materializer struct {
	tx            txRunner
	subscriptions subscriptionStore
	cycles        cycleStore
	addresses     addressStore
	pricing       priceCalculator
	identity      identityStore
	orders        *OrderRepository
	logg          *logger.Logger
}

// MaterializerParams carries the materializer dependencies.
type MaterializerParams struct {
	Tx            txRunner
	Subscriptions subscriptionStore
	Cycles        cycleStore
	Addresses     addressStore
	Pricing       priceCalculator
	Identity      identityStore
	Orders        *OrderRepository
	Logger        *logger.Logger
}

// NewMaterializer wires the order materializer.
func NewMaterializer(params MaterializerParams) (*Materializer, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions store is required")
	}
	if params.Cycles == nil {
		return nil, fmt.Errorf("cycles store is required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("addresses store is required")
	}
	if params.Pricing == nil {
		return nil, fmt.Errorf("pricing calculator is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Materializer{
		tx:            params.Tx,
		subscriptions: params.Subscriptions,
		cycles:        params.Cycles,
		addresses:     params.Addresses,
		pricing:       params.Pricing,
		identity:      params.Identity,
		orders:        params.Orders,
		logg:          params.Logger,
	}, nil
}

// GenerateOrder materializes the order for one subscription and cycle.
// Returns created=false with a nil error when the pair was already
// materialized (idempotent no-op). Any other failure leaves no order, no
// subscription mutation and no audit entry behind.
func (m *Materializer) GenerateOrder(ctx context.Context, subscriptionID, cycleID uuid.UUID, performedBy string, lateAddition bool) (bool, error) {
	ctx = m.logg.WithSubscriptionID(ctx, subscriptionID.String())
	ctx = m.logg.WithCycleID(ctx, cycleID.String())

	sub, err := m.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return false, err
	}

	cycle, err := m.cycles.FindByID(ctx, cycleID)
	if err != nil {
		return false, err
	}

	// Fast-path idempotency check. The unique index on the order table is
	// the authoritative guarantee under concurrent runs.
	existing, err := m.orders.FindBySubscriptionCycle(ctx, subscriptionID, cycleID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		m.logg.Info(ctx, "order already materialized, skipping")
		return false, nil
	}

	if sub.DefaultAddressID == nil {
		return false, errors.New(errors.CodePrecondition, "subscription has no default address")
	}

	address, err := m.addresses.FindByID(ctx, *sub.DefaultAddressID, sub.UserID)
	if err != nil {
		return false, err
	}

	quote, err := m.pricing.Calculate(ctx, sub.BoxType, sub.PromoCode)
	if err != nil {
		return false, err
	}

	customer, err := m.identity.Lookup(ctx, sub.UserID)
	if err != nil {
		return false, err
	}

	snapshot := addresses.Snapshot(*address)
	order := &models.Order{
		UserID:          sub.UserID,
		SubscriptionID:  &sub.ID,
		DeliveryCycleID: &cycle.ID,
		OrderType:       enums.OrderTypeSubscription,
		ShippingAddress: &snapshot,
		RecipientEmail:  customer.Email,
		BoxType:         sub.BoxType,
		OriginalPrice:   quote.OriginalPriceEur,
		FinalPrice:      quote.FinalPriceEur,
		DiscountPercent: quote.DiscountPercent,
		PromoCode:       quote.PromoCode,
	}

	err = m.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := CreateOrderTx(ctx, tx, order); err != nil {
			return err
		}
		if err := subscriptions.SetLastDeliveredCycle(ctx, tx, sub.ID, cycle.ID); err != nil {
			return err
		}
		details := map[string]any{
			"cycle_id":      cycle.ID,
			"late_addition": lateAddition,
		}
		return history.AppendTx(ctx, tx, sub.ID, enums.HistoryActionOrderGenerated, details, performedBy)
	})
	if err != nil {
		// A concurrent run won the insert race; the pair is materialized.
		if db.IsUniqueViolation(err, uniqueOrderConstraint) {
			m.logg.Warn(ctx, "concurrent materialization detected, treating as skip")
			return false, nil
		}
		return false, err
	}

	m.logg.Info(ctx, "order materialized")
	return true, nil
}
