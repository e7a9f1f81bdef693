package generation

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
)

// OrderRepository exposes the order persistence the materializer needs.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository binds the repo to the provided GORM connection.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindBySubscriptionCycle returns the existing order for the pair, or nil
// when none has been materialized yet.
func (r *OrderRepository) FindBySubscriptionCycle(ctx context.Context, subscriptionID, cycleID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND delivery_cycle_id = ?", subscriptionID, cycleID).
		First(&order).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// CountForCycle returns how many orders exist for a cycle.
func (r *OrderRepository) CountForCycle(ctx context.Context, cycleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("delivery_cycle_id = ?", cycleID).
		Count(&count).Error
	return count, err
}

// CreateTx inserts the order using the caller's transaction handle.
func CreateOrderTx(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}
