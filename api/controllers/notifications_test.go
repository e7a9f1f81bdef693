package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

type testNotificationStore struct {
	listFn     func(ctx context.Context, limit int) ([]models.Notification, error)
	markReadFn func(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

func (s *testNotificationStore) ListUnread(ctx context.Context, limit int) ([]models.Notification, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit)
	}
	return nil, nil
}

func (s *testNotificationStore) MarkRead(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, id, now)
	}
	return false, nil
}

func TestListUnreadNotifications(t *testing.T) {
	store := &testNotificationStore{
		listFn: func(ctx context.Context, limit int) ([]models.Notification, error) {
			if limit != 10 {
				t.Fatalf("expected limit 10, got %d", limit)
			}
			return []models.Notification{
				{
					ID:      uuid.New(),
					Kind:    enums.NotificationKindGenerationSuccess,
					Title:   "Order generation completed",
					Message: "generated 4, skipped 0, excluded 1, errors 0",
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=10", nil)
	resp := httptest.NewRecorder()
	ListUnreadNotifications(store, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data []notificationView `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one notification, got %d", len(envelope.Data))
	}
	if envelope.Data[0].Kind != string(enums.NotificationKindGenerationSuccess) {
		t.Fatalf("unexpected kind %q", envelope.Data[0].Kind)
	}
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	notificationID := uuid.New()
	called := false
	store := &testNotificationStore{
		markReadFn: func(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
			called = true
			if id != notificationID {
				t.Fatalf("unexpected notification %s", id)
			}
			return true, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil)
	req = addRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(store, newTestLogger(), nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected store called")
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["read"] {
		t.Fatal("response missing read flag")
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/"+id.String()+"/read", nil)
	req = addRouteParam(req, "notificationId", id.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationStore{}, newTestLogger(), nil)(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/invalid/read", nil)
	req = addRouteParam(req, "notificationId", "invalid")
	resp := httptest.NewRecorder()
	MarkNotificationRead(&testNotificationStore{}, newTestLogger(), nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
