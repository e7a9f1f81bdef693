package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/api/responses"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	pkgerrors "github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type notificationStore interface {
	ListUnread(ctx context.Context, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type notificationView struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListUnreadNotifications returns unread run-summary notifications,
// newest first.
func ListUnreadNotifications(repo notificationStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification store unavailable"))
			return
		}

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		list, err := repo.ListUnread(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]notificationView, 0, len(list))
		for _, n := range list {
			views = append(views, notificationView{
				ID:        n.ID,
				Kind:      n.Kind.String(),
				Title:     n.Title,
				Message:   n.Message,
				Payload:   n.Payload,
				CreatedAt: n.CreatedAt,
			})
		}
		responses.WriteSuccess(w, views)
	}
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(repo notificationStore, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification store unavailable"))
			return
		}

		notificationID, err := uuid.Parse(routeParam(r, "notificationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		updated, err := repo.MarkRead(r.Context(), notificationID, now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !updated {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"read": true})
	}
}
