package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bloomcrate/bloomcrate-backend/internal/addresses"
	"github.com/bloomcrate/bloomcrate-backend/internal/cron"
	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
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

const lockKeyFormat = "bc:cron-worker:lock:%s"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	cyclesRepo := cycles.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	priceCalculator := pricing.NewCalculator(dbClient.DB())
	scheduleRepo := schedule.NewRepository(dbClient.DB())

	materializer, err := generation.NewMaterializer(generation.MaterializerParams{
		Tx:            dbClient,
		Subscriptions: subscriptionsRepo,
		Cycles:        cyclesRepo,
		Addresses:     addresses.NewRepository(dbClient.DB()),
		Pricing:       priceCalculator,
		Identity:      identity.NewRepository(dbClient.DB()),
		Orders:        generation.NewOrderRepository(dbClient.DB()),
		Logger:        logg,
	})
	requireResource(ctx, logg, "materializer", err)

	planGate, err := generation.NewPlanGate(priceCalculator, scheduleRepo)
	requireResource(ctx, logg, "plan gate", err)

	batch, err := generation.NewBatch(generation.BatchParams{
		Cycles:        cyclesRepo,
		Subscriptions: subscriptionsRepo,
		Plans:         planGate,
		Materializer:  materializer,
		Metrics:       metrics.NewGenerationMetrics(prometheus.DefaultRegisterer),
		Logger:        logg,
	})
	requireResource(ctx, logg, "batch generator", err)

	publisher, err := notify.NewPublisher(pubsubClient.GenerationPublisher())
	requireResource(ctx, logg, "event publisher", err)

	notifier, err := generation.NewNotifier(generation.NotifierParams{
		Publisher: publisher,
		Logger:    logg,
		Timeout:   cfg.Generation.NotifyTimeout,
		Retries:   cfg.Generation.NotifyRetries,
	})
	requireResource(ctx, logg, "run notifier", err)

	generationJob, err := cron.NewGenerationJob(cron.GenerationJobParams{
		Logger:      logg,
		Schedule:    scheduleRepo,
		Batch:       batch,
		Notifier:    notifier,
		PerformedBy: cfg.Generation.PerformedBy,
	})
	requireResource(ctx, logg, "generation job", err)

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	requireResource(ctx, logg, "cron lock", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(generationJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Generation.CronInterval,
	})
	requireResource(ctx, logg, "cron service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "starting cron worker")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(runCtx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
