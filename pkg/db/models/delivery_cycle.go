package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// DeliveryCycle is one scheduled delivery round. Created by admin tooling;
// the generation core only reads it.
type DeliveryCycle struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string            `gorm:"type:text;not null"`
	Description  *string           `gorm:"type:text"`
	DeliveryDate time.Time         `gorm:"column:delivery_date;type:date;not null;index"`
	Status       enums.CycleStatus `gorm:"column:status;type:cycle_status;not null;default:'upcoming'"`
	IsRevealed   bool              `gorm:"column:is_revealed;not null;default:false"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
