package identity

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

// Customer is the identity snapshot the order materializer needs.
type Customer struct {
	UserID    uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Locale    string
}

// Repository looks up customer identity (profile plus account email).
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Lookup returns the customer identity for a user. Both the account and
// the profile must exist.
func (r *Repository) Lookup(ctx context.Context, userID uuid.UUID) (*Customer, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "user account not found")
		}
		return nil, err
	}

	var profile models.UserProfile
	err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "user profile not found")
		}
		return nil, err
	}

	return &Customer{
		UserID:    userID,
		Email:     user.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Locale:    profile.Locale,
	}, nil
}
