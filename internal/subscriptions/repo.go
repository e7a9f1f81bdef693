package subscriptions

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

// Repository exposes subscription persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the subscription or a NOT_FOUND error.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "subscription not found")
		}
		return nil, err
	}
	return &sub, nil
}

// ListForGeneration returns all subscriptions in creation order. The batch
// generator classifies each one; exclusion rules live there, not here, so
// excluded subscriptions are still counted in the run summary.
func (r *Repository) ListForGeneration(ctx context.Context) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new subscription.
func (r *Repository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// SetFirstCycle records the initial cycle assignment.
func (r *Repository) SetFirstCycle(ctx context.Context, id, cycleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("first_cycle_id", cycleID).Error
}

// SetLastDeliveredCycle records the cycle a subscription was last
// materialized for. Written exclusively by the order materializer.
func SetLastDeliveredCycle(ctx context.Context, tx *gorm.DB, id, cycleID uuid.UUID) error {
	return tx.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("last_delivered_cycle_id", cycleID).Error
}
