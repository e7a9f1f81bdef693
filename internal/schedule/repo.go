package schedule

import (
	"context"

	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
)

// Repository loads raw schedule settings.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadSettings returns all store settings as a flat key/value map.
func (r *Repository) LoadSettings(ctx context.Context) (map[string]string, error) {
	var rows []models.StoreSetting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}

// ResolveConfig loads settings and resolves them into a schedule config.
func (r *Repository) ResolveConfig(ctx context.Context) (Config, error) {
	raw, err := r.LoadSettings(ctx)
	if err != nil {
		return Config{}, err
	}
	return ResolveConfig(raw), nil
}
