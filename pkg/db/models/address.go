package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping address owned by a user.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string    `gorm:"type:text;not null"`
	Line1      string    `gorm:"type:text;not null"`
	Line2      *string   `gorm:"type:text"`
	City       string    `gorm:"type:text;not null"`
	PostalCode string    `gorm:"column:postal_code;type:text;not null"`
	Country    string    `gorm:"type:text;not null;default:'DE'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
