package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/api/responses"
	"github.com/bloomcrate/bloomcrate-backend/internal/cycles"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	pkgerrors "github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type cycleLister interface {
	List(ctx context.Context, limit int) ([]models.DeliveryCycle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryCycle, error)
}

type cycleView struct {
	ID           uuid.UUID    `json:"id"`
	Status       string       `json:"status"`
	DeliveryDate string       `json:"delivery_date"`
	IsRevealed   bool         `json:"is_revealed"`
	State        cycles.State `json:"state"`
}

func newCycleView(cycle models.DeliveryCycle, now time.Time) cycleView {
	return cycleView{
		ID:           cycle.ID,
		Status:       string(cycle.Status),
		DeliveryDate: cycle.DeliveryDate.Format("2006-01-02"),
		IsRevealed:   cycle.IsRevealed,
		State:        cycles.ComputeState(cycle, now),
	}
}

// ListCycles returns delivery cycles with their derived lifecycle state.
func ListCycles(repo cycleLister, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle repository unavailable"))
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

		list, err := repo.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		at := now()
		views := make([]cycleView, 0, len(list))
		for _, cycle := range list {
			views = append(views, newCycleView(cycle, at))
		}
		responses.WriteSuccess(w, views)
	}
}

// GetCycle returns one delivery cycle with its derived lifecycle state.
func GetCycle(repo cycleLister, logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cycle repository unavailable"))
			return
		}

		cycleID, err := uuid.Parse(routeParam(r, "cycleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cycle id"))
			return
		}

		cycle, err := repo.FindByID(r.Context(), cycleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCycleView(*cycle, now()))
	}
}
