package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/bloomcrate/bloomcrate-backend/internal/notify"
	"github.com/bloomcrate/bloomcrate-backend/pkg/config"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
	"github.com/bloomcrate/bloomcrate-backend/pkg/migrate"
	"github.com/bloomcrate/bloomcrate-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "notify-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "notify-worker"

	logg = logger.New(logger.Options{
		ServiceName: "notify-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	consumer, err := notify.NewConsumer(
		notify.NewRepository(dbClient.DB()),
		pubsubClient.GenerationSubscription(),
		logg,
	)
	requireResource(ctx, logg, "notification consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "notify worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "notify worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
