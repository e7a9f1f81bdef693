package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/api/responses"
	"github.com/bloomcrate/bloomcrate-backend/api/validators"
	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	pkgerrors "github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type generationBatch interface {
	GenerateForActiveCycle(ctx context.Context, performedBy string) (*generation.Result, error)
	GenerateForCycle(ctx context.Context, cycleID uuid.UUID, performedBy string) (*generation.Result, error)
}

type generationNotifier interface {
	NotifyRunCompleted(result *generation.Result)
	NotifyRunFailure(runErr error)
}

type triggerGenerationRequest struct {
	CycleID     *string `json:"cycleId" validate:"omitempty,uuid4"`
	PerformedBy string  `json:"performedBy" validate:"omitempty,max=100"`
}

// TriggerGenerationRun starts an order-generation run on demand. With a
// cycleId in the body the run targets that cycle and fails fast when the
// cycle does not exist; without one it targets the active cycle.
func TriggerGenerationRun(batch generationBatch, notifier generationNotifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if batch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generation batch unavailable"))
			return
		}

		var req triggerGenerationRequest
		if err := validators.DecodeOptionalJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		performedBy := req.PerformedBy
		if performedBy == "" {
			performedBy = "admin"
		}

		var (
			result *generation.Result
			err    error
		)
		if req.CycleID != nil {
			cycleID, parseErr := uuid.Parse(*req.CycleID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cycle id"))
				return
			}
			result, err = batch.GenerateForCycle(r.Context(), cycleID, performedBy)
		} else {
			result, err = batch.GenerateForActiveCycle(r.Context(), performedBy)
		}
		if err != nil {
			if notifier != nil {
				notifier.NotifyRunFailure(err)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if notifier != nil {
			notifier.NotifyRunCompleted(result)
		}
		responses.WriteSuccess(w, result)
	}
}
