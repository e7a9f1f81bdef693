package addresses

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/types"
)

// Repository exposes address lookups scoped to their owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID returns the address if it exists and belongs to ownerID.
func (r *Repository) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&address).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "address not found")
		}
		return nil, err
	}
	return &address, nil
}

// Create persists a new address for the owner.
func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// Snapshot copies an address into the denormalized form stored on orders.
func Snapshot(address models.Address) types.ShippingSnapshot {
	return types.ShippingSnapshot{
		Name:       address.Name,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}
}
