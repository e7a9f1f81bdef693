package generation

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type fakePublisher struct {
	mu        sync.Mutex
	published [][]byte
	attrs     []map[string]string
	failures  int
	done      chan struct{}
}

func newFakePublisher(buffer int) *fakePublisher {
	return &fakePublisher{done: make(chan struct{}, buffer)}
}

func (f *fakePublisher) Publish(_ context.Context, data []byte, attrs map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return stdErrors.New("transient publish failure")
	}

	f.published = append(f.published, data)
	f.attrs = append(f.attrs, attrs)
	f.done <- struct{}{}
	return nil
}

func (f *fakePublisher) lastEvent(t *testing.T) Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	require.NotEmpty(t, f.published)
	var event Event
	require.NoError(t, json.Unmarshal(f.published[len(f.published)-1], &event))
	return event
}

func (f *fakePublisher) waitForPublish(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for publish")
	}
}

func newTestNotifier(t *testing.T, publisher *fakePublisher) *Notifier {
	t.Helper()

	notifier, err := NewNotifier(NotifierParams{
		Publisher: publisher,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Timeout:   5 * time.Second,
		Retries:   3,
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return notifier
}

func TestNotifyRunCompletedSuccess(t *testing.T) {
	publisher := newFakePublisher(1)
	notifier := newTestNotifier(t, publisher)

	cycleID := uuid.New()
	notifier.NotifyRunCompleted(&Result{CycleID: &cycleID, Generated: 3})
	publisher.waitForPublish(t)

	event := publisher.lastEvent(t)
	assert.Equal(t, enums.NotificationKindGenerationSuccess, event.Kind)
	require.NotNil(t, event.Result)
	assert.Equal(t, 3, event.Result.Generated)
}

func TestNotifyRunCompletedPartialFailure(t *testing.T) {
	publisher := newFakePublisher(1)
	notifier := newTestNotifier(t, publisher)

	cycleID := uuid.New()
	notifier.NotifyRunCompleted(&Result{
		CycleID:   &cycleID,
		Generated: 2,
		Errors:    1,
		ErrorDetails: []ErrorDetail{
			{SubscriptionID: uuid.New(), Error: "subscription has no default address"},
		},
	})
	publisher.waitForPublish(t)

	event := publisher.lastEvent(t)
	assert.Equal(t, enums.NotificationKindGenerationPartial, event.Kind)
	require.NotNil(t, event.Result)
	require.Len(t, event.Result.ErrorDetails, 1)
}

func TestNotifyRunFailure(t *testing.T) {
	publisher := newFakePublisher(1)
	notifier := newTestNotifier(t, publisher)

	notifier.NotifyRunFailure(stdErrors.New("cycle lookup exploded"))
	publisher.waitForPublish(t)

	event := publisher.lastEvent(t)
	assert.Equal(t, enums.NotificationKindGenerationFailed, event.Kind)
	assert.Equal(t, "cycle lookup exploded", event.Error)
	assert.Nil(t, event.Result)
}

func TestNotifyRunCompletedSkipsEmptyRun(t *testing.T) {
	publisher := newFakePublisher(1)
	notifier := newTestNotifier(t, publisher)

	notifier.NotifyRunCompleted(&Result{Message: "no eligible delivery cycle"})

	select {
	case <-publisher.done:
		t.Fatal("empty run should not publish")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifierRetriesTransientFailures(t *testing.T) {
	publisher := newFakePublisher(1)
	publisher.failures = 2
	notifier := newTestNotifier(t, publisher)

	cycleID := uuid.New()
	notifier.NotifyRunCompleted(&Result{CycleID: &cycleID, Generated: 1})
	publisher.waitForPublish(t)

	event := publisher.lastEvent(t)
	assert.Equal(t, enums.NotificationKindGenerationSuccess, event.Kind)
}
