package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/internal/subscriptions"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

type testSubscriptionService struct {
	createFn func(ctx context.Context, params subscriptions.CreateParams) (*models.Subscription, error)
}

func (s *testSubscriptionService) Create(ctx context.Context, params subscriptions.CreateParams) (*models.Subscription, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return nil, nil
}

func TestCreateSubscriptionSuccess(t *testing.T) {
	userID := uuid.New()
	addressID := uuid.New()
	cycleID := uuid.New()
	svc := &testSubscriptionService{
		createFn: func(ctx context.Context, params subscriptions.CreateParams) (*models.Subscription, error) {
			if params.UserID != userID {
				t.Fatalf("unexpected user %s", params.UserID)
			}
			if params.Frequency != enums.FrequencyMonthly {
				t.Fatalf("unexpected frequency %s", params.Frequency)
			}
			if params.DefaultAddressID == nil || *params.DefaultAddressID != addressID {
				t.Fatal("expected default address to be forwarded")
			}
			return &models.Subscription{
				ID:               uuid.New(),
				UserID:           params.UserID,
				BoxType:          params.BoxType,
				Frequency:        params.Frequency,
				Status:           enums.SubscriptionStatusActive,
				DefaultAddressID: params.DefaultAddressID,
				FirstCycleID:     &cycleID,
			}, nil
		},
	}

	body := `{"userId":"` + userID.String() + `","boxType":"classic","frequency":"monthly","defaultAddressId":"` + addressID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateSubscription(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data subscriptionView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.FirstCycleID == nil || *envelope.Data.FirstCycleID != cycleID {
		t.Fatal("expected assigned first cycle in response")
	}
}

func TestCreateSubscriptionRejectsUnknownFrequency(t *testing.T) {
	body := `{"userId":"` + uuid.NewString() + `","boxType":"classic","frequency":"weekly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateSubscription(&testSubscriptionService{}, newTestLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSubscriptionRejectsMissingBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	CreateSubscription(&testSubscriptionService{}, newTestLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
