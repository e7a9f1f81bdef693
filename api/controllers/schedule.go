package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bloomcrate/bloomcrate-backend/api/responses"
	"github.com/bloomcrate/bloomcrate-backend/internal/schedule"
	pkgerrors "github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

const (
	defaultPreviewCount = 3
	maxPreviewCount     = 12
)

type scheduleConfigResolver interface {
	ResolveConfig(ctx context.Context) (schedule.Config, error)
}

type schedulePreview struct {
	DeliveryDay         int      `json:"delivery_day"`
	SubscriptionEnabled bool     `json:"subscription_enabled"`
	RevealedBoxEnabled  bool     `json:"revealed_box_enabled"`
	FirstDelivery       bool     `json:"first_delivery"`
	NextDeliveryDates   []string `json:"next_delivery_dates"`
}

// PreviewSchedule resolves the store schedule settings and projects the
// next delivery dates from them.
func PreviewSchedule(resolver scheduleConfigResolver, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule resolver unavailable"))
			return
		}

		count := defaultPreviewCount
		if countStr := strings.TrimSpace(r.URL.Query().Get("count")); countStr != "" {
			value, err := strconv.Atoi(countStr)
			if err != nil || value <= 0 || value > maxPreviewCount {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "count must be between 1 and "+strconv.Itoa(maxPreviewCount)))
				return
			}
			count = value
		}

		cfg, err := resolver.ResolveConfig(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		at := now()
		dates := schedule.NextDeliveryDates(cfg, count, at)
		labels := make([]string, 0, len(dates))
		for _, date := range dates {
			labels = append(labels, date.Format("2006-01-02"))
		}

		responses.WriteSuccess(w, schedulePreview{
			DeliveryDay:         cfg.DeliveryDay,
			SubscriptionEnabled: cfg.SubscriptionEnabled,
			RevealedBoxEnabled:  cfg.RevealedBoxEnabled,
			FirstDelivery:       schedule.IsFirstDelivery(cfg, at),
			NextDeliveryDates:   labels,
		})
	}
}
