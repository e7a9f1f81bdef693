package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoxPlan is the catalog entry for a box type with its base price.
type BoxPlan struct {
	BoxType   string          `gorm:"column:box_type;type:text;primaryKey"`
	Name      string          `gorm:"type:text;not null"`
	PriceEur  decimal.Decimal `gorm:"column:price_eur;type:numeric(12,2);not null"`
	Enabled   bool            `gorm:"column:enabled;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PromoCode is a percentage discount applied by the pricing calculator.
type PromoCode struct {
	Code            string    `gorm:"column:code;type:text;primaryKey"`
	DiscountPercent int       `gorm:"column:discount_percent;not null"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
