package cycles

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

// Repository exposes delivery-cycle lookups. The generation core only
// reads cycles; admin tooling owns their lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the cycle or a NOT_FOUND error.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryCycle, error) {
	var cycle models.DeliveryCycle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cycle).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "delivery cycle not found")
		}
		return nil, err
	}
	return &cycle, nil
}

// FindNextUpcoming returns the nearest-dated upcoming cycle, or nil when
// none exists.
func (r *Repository) FindNextUpcoming(ctx context.Context) (*models.DeliveryCycle, error) {
	var cycle models.DeliveryCycle
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CycleStatusUpcoming).
		Order("delivery_date ASC").
		First(&cycle).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

// FindLatestDelivered returns the most-recently-dated delivered cycle, or
// nil when none exists. Late joiners attach to the freshest delivered
// cycle rather than an older stale one.
func (r *Repository) FindLatestDelivered(ctx context.Context) (*models.DeliveryCycle, error) {
	var cycle models.DeliveryCycle
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.CycleStatusDelivered).
		Order("delivery_date DESC").
		First(&cycle).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

// FindEarliestEligible returns the earliest upcoming cycle whose delivery
// date has arrived (on or before today), or nil when nothing is due.
func (r *Repository) FindEarliestEligible(ctx context.Context, now time.Time) (*models.DeliveryCycle, error) {
	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	var cycle models.DeliveryCycle
	err := r.db.WithContext(ctx).
		Where("status = ? AND delivery_date < ?", enums.CycleStatusUpcoming, startOfTomorrow).
		Order("delivery_date ASC").
		First(&cycle).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

// List returns cycles ordered by delivery date descending.
func (r *Repository) List(ctx context.Context, limit int) ([]models.DeliveryCycle, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.DeliveryCycle
	err := r.db.WithContext(ctx).
		Order("delivery_date DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
