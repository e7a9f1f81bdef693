package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// Notification stores operator-facing run summaries written by the
// notification consumer.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind      enums.NotificationKind `gorm:"column:kind;type:text;not null"`
	Title     string                 `gorm:"type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	Payload   json.RawMessage        `gorm:"column:payload;type:jsonb"`
	ReadAt    *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
