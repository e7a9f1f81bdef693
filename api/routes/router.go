package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomcrate/bloomcrate-backend/api/controllers"
	"github.com/bloomcrate/bloomcrate-backend/api/middleware"
	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	"github.com/bloomcrate/bloomcrate-backend/internal/notify"
	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/config"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
	"github.com/bloomcrate/bloomcrate-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         redis.Pinger
	Subscriptions *subscriptions.Service
	Cycles        *cycles.Repository
	Schedule      *schedule.Repository
	Notifications *notify.Repository
	Batch         *generation.Batch
	Notifier      *generation.Notifier
	Now           func() time.Time
}

// NewRouter assembles the API routes.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger
	now := params.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(params)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/subscriptions", controllers.CreateSubscription(params.Subscriptions, logg))
		r.Get("/notifications", controllers.ListUnreadNotifications(params.Notifications, logg))
		r.Post("/notifications/{notificationId}/read", controllers.MarkNotificationRead(params.Notifications, logg, now))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/generation/runs", controllers.TriggerGenerationRun(params.Batch, params.Notifier, logg))
		r.Get("/cycles", controllers.ListCycles(params.Cycles, logg, now))
		r.Get("/cycles/{cycleId}/state", controllers.GetCycle(params.Cycles, logg, now))
		r.Get("/schedule/next", controllers.PreviewSchedule(params.Schedule, logg, now))
	})

	return r
}

func readinessDeps(params RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if params.DB != nil {
		deps["database"] = params.DB
	}
	if params.Redis != nil {
		deps["redis"] = params.Redis
	}
	return deps
}
