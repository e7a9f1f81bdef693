package pricing

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

// Quote is the authoritative price snapshot for one box. Computed at
// materialization time and copied onto the order.
type Quote struct {
	OriginalPriceEur decimal.Decimal
	FinalPriceEur    decimal.Decimal
	DiscountPercent  int
	PromoCode        *string
}

// Calculator resolves box prices and promo discounts. Pure lookup, no
// side effects.
type Calculator struct {
	db *gorm.DB
}

// NewCalculator binds the calculator to the provided GORM connection.
func NewCalculator(db *gorm.DB) *Calculator {
	return &Calculator{db: db}
}

// Calculate returns the price snapshot for a box type with an optional
// promo code. Unknown or inactive promo codes are ignored rather than
// failing the order.
func (c *Calculator) Calculate(ctx context.Context, boxType string, promoCode *string) (Quote, error) {
	var plan models.BoxPlan
	err := c.db.WithContext(ctx).Where("box_type = ?", boxType).First(&plan).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return Quote{}, errors.New(errors.CodeNotFound, "box plan not found")
		}
		return Quote{}, err
	}

	quote := Quote{
		OriginalPriceEur: plan.PriceEur,
		FinalPriceEur:    plan.PriceEur,
	}

	if promoCode == nil || strings.TrimSpace(*promoCode) == "" {
		return quote, nil
	}

	var promo models.PromoCode
	err = c.db.WithContext(ctx).
		Where("code = ? AND active = ?", strings.TrimSpace(*promoCode), true).
		First(&promo).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return quote, nil
		}
		return Quote{}, err
	}

	discount := plan.PriceEur.
		Mul(decimal.NewFromInt(int64(promo.DiscountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(2)

	quote.FinalPriceEur = plan.PriceEur.Sub(discount)
	quote.DiscountPercent = promo.DiscountPercent
	quote.PromoCode = &promo.Code
	return quote, nil
}

// PlanEnabled reports whether a box type exists and is currently sold.
// Missing plans count as disabled.
func (c *Calculator) PlanEnabled(ctx context.Context, boxType string) (bool, error) {
	var plan models.BoxPlan
	err := c.db.WithContext(ctx).Where("box_type = ?", boxType).First(&plan).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return plan.Enabled, nil
}
