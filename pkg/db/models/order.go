package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/types"
)

// Order is a materialized delivery for one subscription and cycle. The
// partial unique index uq_orders_subscription_cycle on
// (subscription_id, delivery_cycle_id) is the authoritative guarantee that
// a pair is materialized at most once.
type Order struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	SubscriptionID  *uuid.UUID              `gorm:"column:subscription_id;type:uuid;index"`
	DeliveryCycleID *uuid.UUID              `gorm:"column:delivery_cycle_id;type:uuid;index"`
	OrderType       enums.OrderType         `gorm:"column:order_type;type:order_type;not null;default:'subscription'"`
	ShippingAddress *types.ShippingSnapshot `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	RecipientEmail  string                  `gorm:"column:recipient_email;type:text;not null"`
	BoxType         string                  `gorm:"column:box_type;type:text;not null"`
	OriginalPrice   decimal.Decimal         `gorm:"column:original_price_eur;type:numeric(12,2);not null"`
	FinalPrice      decimal.Decimal         `gorm:"column:final_price_eur;type:numeric(12,2);not null"`
	DiscountPercent int                     `gorm:"column:discount_percent;not null;default:0"`
	PromoCode       *string                 `gorm:"column:promo_code;type:text"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
