package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical account entity. Authentication lives elsewhere;
// the generation core only needs the account email.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"type:text;not null;uniqueIndex"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// UserProfile holds the customer-facing identity for an account.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;type:text;not null"`
	LastName  string    `gorm:"column:last_name;type:text;not null"`
	Locale    string    `gorm:"column:locale;type:text;not null;default:'de-DE'"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
