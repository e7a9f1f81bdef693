package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// Repository is the append-only audit sink for subscription events.
// Entries are inserted once and never updated or deleted.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append writes one audit entry. Details are marshaled to jsonb.
func (r *Repository) Append(ctx context.Context, subscriptionID uuid.UUID, action enums.HistoryAction, details any, performedBy string) error {
	return AppendTx(ctx, r.db, subscriptionID, action, details, performedBy)
}

// AppendTx writes one audit entry using the caller's transaction handle,
// so the entry commits or rolls back together with the mutation it records.
func AppendTx(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID, action enums.HistoryAction, details any, performedBy string) error {
	if !action.IsValid() {
		return fmt.Errorf("invalid history action %q", action)
	}

	var payload json.RawMessage
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling history details: %w", err)
		}
		payload = raw
	}

	entry := &models.SubscriptionHistory{
		SubscriptionID: subscriptionID,
		Action:         action,
		Details:        payload,
		PerformedBy:    performedBy,
	}
	return tx.WithContext(ctx).Create(entry).Error
}

// ListForSubscription returns entries oldest first.
func (r *Repository) ListForSubscription(ctx context.Context, subscriptionID uuid.UUID) ([]models.SubscriptionHistory, error) {
	var rows []models.SubscriptionHistory
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
