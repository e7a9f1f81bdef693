package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
)

// Repository exposes persistence helpers for operator notifications.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a notification.
func (r *Repository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListUnread returns unread notifications, newest first.
func (r *Repository) ListUnread(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Notification
	err := r.db.WithContext(ctx).
		Where("read_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead stamps a notification as read. Reports whether a row matched.
func (r *Repository) MarkRead(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
