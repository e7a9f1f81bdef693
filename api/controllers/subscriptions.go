package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/api/responses"
	"github.com/bloomcrate/bloomcrate-backend/api/validators"
	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	pkgerrors "github.com/bloomcrate/bloomcrate-backend/pkg/errors"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type subscriptionCreator interface {
	Create(ctx context.Context, params subscriptions.CreateParams) (*models.Subscription, error)
}

type createSubscriptionRequest struct {
	UserID           string   `json:"userId" validate:"required,uuid4"`
	BoxType          string   `json:"boxType" validate:"required,max=100"`
	Frequency        string   `json:"frequency" validate:"required,oneof=monthly bimonthly onetime"`
	DefaultAddressID *string  `json:"defaultAddressId" validate:"omitempty,uuid4"`
	Preferences      []string `json:"preferences" validate:"omitempty,max=20,dive,max=100"`
	PromoCode        *string  `json:"promoCode" validate:"omitempty,max=50"`
}

type subscriptionView struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	BoxType              string     `json:"box_type"`
	Frequency            string     `json:"frequency"`
	Status               string     `json:"status"`
	DefaultAddressID     *uuid.UUID `json:"default_address_id"`
	Preferences          []string   `json:"preferences"`
	PromoCode            *string    `json:"promo_code"`
	FirstCycleID         *uuid.UUID `json:"first_cycle_id"`
	LastDeliveredCycleID *uuid.UUID `json:"last_delivered_cycle_id"`
}

func newSubscriptionView(sub *models.Subscription) subscriptionView {
	return subscriptionView{
		ID:                   sub.ID,
		UserID:               sub.UserID,
		BoxType:              sub.BoxType,
		Frequency:            string(sub.Frequency),
		Status:               string(sub.Status),
		DefaultAddressID:     sub.DefaultAddressID,
		Preferences:          sub.Preferences,
		PromoCode:            sub.PromoCode,
		FirstCycleID:         sub.FirstCycleID,
		LastDeliveredCycleID: sub.LastDeliveredCycleID,
	}
}

// CreateSubscription creates a subscription and assigns its first delivery
// cycle. Joining after the active cycle was already delivered triggers an
// immediate catch-up order.
func CreateSubscription(svc subscriptionCreator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscriptions service unavailable"))
			return
		}

		var req createSubscriptionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		params := subscriptions.CreateParams{
			UserID:      userID,
			BoxType:     req.BoxType,
			Frequency:   enums.Frequency(req.Frequency),
			Preferences: req.Preferences,
			PromoCode:   req.PromoCode,
			PerformedBy: "api",
		}
		if req.DefaultAddressID != nil {
			addressID, err := uuid.Parse(*req.DefaultAddressID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id"))
				return
			}
			params.DefaultAddressID = &addressID
		}

		sub, err := svc.Create(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSubscriptionView(sub))
	}
}
