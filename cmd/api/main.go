package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bloomcrate/bloomcrate-backend/api/routes"
	"github.com/bloomcrate/bloomcrate-backend/internal/addresses"
	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	"github.com/bloomcrate/bloomcrate-backend/internal/history"
	"github.com/bloomcrate/bloomcrate-backend/internal/identity"
	"github.com/bloomcrate/bloomcrate-backend/internal/notify"
	"github.com/bloomcrate/bloomcrate-backend/internal/pricing"
	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/config"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
	"github.com/bloomcrate/bloomcrate-backend/pkg/metrics"
	"github.com/bloomcrate/bloomcrate-backend/pkg/migrate"
	"github.com/bloomcrate/bloomcrate-backend/pkg/pubsub"
	"github.com/bloomcrate/bloomcrate-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	cyclesRepo := cycles.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	addressesRepo := addresses.NewRepository(dbClient.DB())
	identityRepo := identity.NewRepository(dbClient.DB())
	historyRepo := history.NewRepository(dbClient.DB())
	priceCalculator := pricing.NewCalculator(dbClient.DB())
	scheduleRepo := schedule.NewRepository(dbClient.DB())
	notificationsRepo := notify.NewRepository(dbClient.DB())
	ordersRepo := generation.NewOrderRepository(dbClient.DB())

	materializer, err := generation.NewMaterializer(generation.MaterializerParams{
		Tx:            dbClient,
		Subscriptions: subscriptionsRepo,
		Cycles:        cyclesRepo,
		Addresses:     addressesRepo,
		Pricing:       priceCalculator,
		Identity:      identityRepo,
		Orders:        ordersRepo,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create materializer", err)
		os.Exit(1)
	}

	planGate, err := generation.NewPlanGate(priceCalculator, scheduleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create plan gate", err)
		os.Exit(1)
	}

	batch, err := generation.NewBatch(generation.BatchParams{
		Cycles:        cyclesRepo,
		Subscriptions: subscriptionsRepo,
		Plans:         planGate,
		Materializer:  materializer,
		Metrics:       metrics.NewGenerationMetrics(prometheus.DefaultRegisterer),
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create batch generator", err)
		os.Exit(1)
	}

	resolver, err := cycles.NewResolver(cycles.ResolverParams{Cycles: cyclesRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create cycle resolver", err)
		os.Exit(1)
	}

	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:         subscriptionsRepo,
		Resolver:     resolver,
		Materializer: materializer,
		History:      historyRepo,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	publisher, err := notify.NewPublisher(pubsubClient.GenerationPublisher())
	if err != nil {
		logg.Error(context.Background(), "failed to create event publisher", err)
		os.Exit(1)
	}

	notifier, err := generation.NewNotifier(generation.NotifierParams{
		Publisher: publisher,
		Logger:    logg,
		Timeout:   cfg.Generation.NotifyTimeout,
		Retries:   cfg.Generation.NotifyRetries,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create run notifier", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Subscriptions: subscriptionsService,
			Cycles:        cyclesRepo,
			Schedule:      scheduleRepo,
			Notifications: notificationsRepo,
			Batch:         batch,
			Notifier:      notifier,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
