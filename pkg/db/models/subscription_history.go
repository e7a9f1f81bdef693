package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// SubscriptionHistory is the append-only audit trail for a subscription.
// Rows are inserted once and never updated or deleted.
type SubscriptionHistory struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID           `gorm:"column:subscription_id;type:uuid;not null;index"`
	Action         enums.HistoryAction `gorm:"column:action;type:text;not null"`
	Details        json.RawMessage     `gorm:"column:details;type:jsonb"`
	PerformedBy    string              `gorm:"column:performed_by;type:text;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// TableName maps the model to the singular table created by the migration.
func (SubscriptionHistory) TableName() string {
	return "subscription_history"
}
