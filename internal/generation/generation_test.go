package generation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bloomcrate/bloomcrate-backend/internal/addresses"
	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/internal/identity"
	"github.com/bloomcrate/bloomcrate-backend/internal/pricing"
	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type testEnv struct {
	db           *gorm.DB
	materializer *Materializer
	batch        *Batch
	orders       *OrderRepository
}

func setupGenerationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  locale TEXT NOT NULL DEFAULT 'de-DE',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'DE',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS box_plans (
  box_type TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price_eur TEXT NOT NULL,
  enabled INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS promo_codes (
  code TEXT PRIMARY KEY,
  discount_percent INTEGER NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS delivery_cycles (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  delivery_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'upcoming',
  is_revealed INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  box_type TEXT NOT NULL,
  frequency TEXT NOT NULL DEFAULT 'monthly',
  status TEXT NOT NULL DEFAULT 'active',
  default_address_id TEXT,
  preferences TEXT,
  promo_code TEXT,
  first_cycle_id TEXT,
  last_delivered_cycle_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  subscription_id TEXT,
  delivery_cycle_id TEXT,
  order_type TEXT NOT NULL DEFAULT 'subscription',
  shipping_address TEXT,
  recipient_email TEXT NOT NULL,
  box_type TEXT NOT NULL,
  original_price_eur TEXT NOT NULL,
  final_price_eur TEXT NOT NULL,
  discount_percent INTEGER NOT NULL DEFAULT 0,
  promo_code TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_subscription_cycle
  ON orders (subscription_id, delivery_cycle_id)
  WHERE subscription_id IS NOT NULL AND delivery_cycle_id IS NOT NULL;`,
		`CREATE TABLE IF NOT EXISTS subscription_history (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  action TEXT NOT NULL,
  details TEXT,
  performed_by TEXT NOT NULL,
  created_at DATETIME
);`,
	}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupGenerationTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	orderRepo := NewOrderRepository(db)

	materializer, err := NewMaterializer(MaterializerParams{
		Tx:            gormTxRunner{db: db},
		Subscriptions: subscriptions.NewRepository(db),
		Cycles:        cycles.NewRepository(db),
		Addresses:     addresses.NewRepository(db),
		Pricing:       pricing.NewCalculator(db),
		Identity:      identity.NewRepository(db),
		Orders:        orderRepo,
		Logger:        logg,
	})
	require.NoError(t, err)

	batch, err := NewBatch(BatchParams{
		Cycles:        cycles.NewRepository(db),
		Subscriptions: subscriptions.NewRepository(db),
		Plans:         pricing.NewCalculator(db),
		Materializer:  materializer,
		Logger:        logg,
		Now:           func() time.Time { return testNow },
	})
	require.NoError(t, err)

	return &testEnv{
		db:           db,
		materializer: materializer,
		batch:        batch,
		orders:       orderRepo,
	}
}

type subscriberFixture struct {
	userID         uuid.UUID
	subscriptionID uuid.UUID
	addressID      uuid.UUID
}

type subscriberOpts struct {
	email       string
	status      enums.SubscriptionStatus
	frequency   enums.Frequency
	boxType     string
	noAddress   bool
	noProfile   bool
	promoCode   *string
	lastCycleID *uuid.UUID
}

func seedBoxPlan(t *testing.T, db *gorm.DB, boxType string, enabled bool) {
	t.Helper()
	plan := &models.BoxPlan{
		BoxType:  boxType,
		Name:     boxType,
		PriceEur: decimal.RequireFromString("39.90"),
		Enabled:  enabled,
	}
	require.NoError(t, db.Create(plan).Error)
	// The model's `default:true` tag makes GORM substitute the default for a
	// zero-value Enabled on insert, so persist enabled=false explicitly.
	require.NoError(t, db.Model(&models.BoxPlan{}).
		Where("box_type = ?", boxType).
		Update("enabled", enabled).Error)
}

func seedCycle(t *testing.T, db *gorm.DB, status enums.CycleStatus, deliveryDate time.Time) uuid.UUID {
	t.Helper()
	cycle := &models.DeliveryCycle{
		ID:           uuid.New(),
		Title:        "March Box",
		DeliveryDate: deliveryDate,
		Status:       status,
	}
	require.NoError(t, db.Create(cycle).Error)
	return cycle.ID
}

func seedSubscriber(t *testing.T, db *gorm.DB, opts subscriberOpts) subscriberFixture {
	t.Helper()

	if opts.status == "" {
		opts.status = enums.SubscriptionStatusActive
	}
	if opts.frequency == "" {
		opts.frequency = enums.FrequencyMonthly
	}
	if opts.boxType == "" {
		opts.boxType = "classic"
	}

	user := &models.User{ID: uuid.New(), Email: opts.email, IsActive: true}
	require.NoError(t, db.Create(user).Error)

	if !opts.noProfile {
		profile := &models.UserProfile{
			ID:        uuid.New(),
			UserID:    user.ID,
			FirstName: "Mara",
			LastName:  "Vogel",
		}
		require.NoError(t, db.Create(profile).Error)
	}

	fixture := subscriberFixture{userID: user.ID}

	var addressID *uuid.UUID
	if !opts.noAddress {
		address := &models.Address{
			ID:         uuid.New(),
			UserID:     user.ID,
			Name:       "Mara Vogel",
			Line1:      "Blumenstr. 12",
			City:       "Berlin",
			PostalCode: "10115",
			Country:    "DE",
		}
		require.NoError(t, db.Create(address).Error)
		fixture.addressID = address.ID
		addressID = &address.ID
	}

	sub := &models.Subscription{
		ID:                   uuid.New(),
		UserID:               user.ID,
		BoxType:              opts.boxType,
		Frequency:            opts.frequency,
		Status:               opts.status,
		DefaultAddressID:     addressID,
		PromoCode:            opts.promoCode,
		LastDeliveredCycleID: opts.lastCycleID,
	}
	require.NoError(t, db.Create(sub).Error)
	fixture.subscriptionID = sub.ID

	return fixture
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Table(table).Count(&count).Error)
	return count
}
