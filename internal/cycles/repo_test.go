package cycles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/errors"
)

func setupCyclesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS delivery_cycles (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  delivery_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'upcoming',
  is_revealed INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertCycle(t *testing.T, db *gorm.DB, status enums.CycleStatus, deliveryDate time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Exec(
		`INSERT INTO delivery_cycles (id, title, delivery_date, status) VALUES (?, ?, ?, ?)`,
		id.String(), "March Box", deliveryDate, status,
	).Error
	require.NoError(t, err)
	return id
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewRepository(setupCyclesTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))
}

func TestFindNextUpcomingPicksNearestDate(t *testing.T) {
	db := setupCyclesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertCycle(t, db, enums.CycleStatusUpcoming, time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC))
	nearest := insertCycle(t, db, enums.CycleStatusUpcoming, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC))
	insertCycle(t, db, enums.CycleStatusDelivered, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))

	cycle, err := repo.FindNextUpcoming(ctx)
	require.NoError(t, err)
	require.NotNil(t, cycle)
	assert.Equal(t, nearest, cycle.ID)
}

func TestFindNextUpcomingEmpty(t *testing.T) {
	repo := NewRepository(setupCyclesTestDB(t))

	cycle, err := repo.FindNextUpcoming(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cycle)
}

func TestFindLatestDeliveredPicksFreshest(t *testing.T) {
	db := setupCyclesTestDB(t)
	repo := NewRepository(db)

	insertCycle(t, db, enums.CycleStatusDelivered, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	freshest := insertCycle(t, db, enums.CycleStatusDelivered, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	insertCycle(t, db, enums.CycleStatusArchived, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC))

	cycle, err := repo.FindLatestDelivered(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cycle)
	assert.Equal(t, freshest, cycle.ID)
}

func TestFindEarliestEligible(t *testing.T) {
	db := setupCyclesTestDB(t)
	repo := NewRepository(db)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	insertCycle(t, db, enums.CycleStatusUpcoming, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC))
	due := insertCycle(t, db, enums.CycleStatusUpcoming, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	insertCycle(t, db, enums.CycleStatusDelivered, time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC))

	cycle, err := repo.FindEarliestEligible(context.Background(), now)
	require.NoError(t, err)
	require.NotNil(t, cycle)
	assert.Equal(t, due, cycle.ID)
}

func TestFindEarliestEligibleNothingDue(t *testing.T) {
	db := setupCyclesTestDB(t)
	repo := NewRepository(db)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	insertCycle(t, db, enums.CycleStatusUpcoming, time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC))

	cycle, err := repo.FindEarliestEligible(context.Background(), now)
	require.NoError(t, err)
	assert.Nil(t, cycle)
}
