package models

import "time"

// StoreSetting is a raw key/value operational setting. The schedule config
// resolver parses these defensively; bad values never block scheduling.
type StoreSetting struct {
	Key       string    `gorm:"column:key;type:text;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
