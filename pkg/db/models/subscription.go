package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// Subscription represents a recurring or one-time box subscription.
// LastDeliveredCycleID is written exclusively by the order materializer.
type Subscription struct {
	ID                   uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	BoxType              string                   `gorm:"column:box_type;type:text;not null"`
	Frequency            enums.Frequency          `gorm:"column:frequency;type:frequency;not null;default:'monthly'"`
	Status               enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	DefaultAddressID     *uuid.UUID               `gorm:"column:default_address_id;type:uuid"`
	Preferences          pq.StringArray           `gorm:"column:preferences;type:text[];default:ARRAY[]::text[]"`
	PromoCode            *string                  `gorm:"column:promo_code;type:text"`
	FirstCycleID         *uuid.UUID               `gorm:"column:first_cycle_id;type:uuid"`
	LastDeliveredCycleID *uuid.UUID               `gorm:"column:last_delivered_cycle_id;type:uuid"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
