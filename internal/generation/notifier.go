package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// Event is the operator-facing run summary published after a generation
// run. The notify worker turns these into stored notifications.
type Event struct {
	Kind       enums.NotificationKind `json:"kind"`
	Result     *Result                `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Notifier classifies a run outcome and publishes the matching event.
// Dispatch is fire-and-forget: publish failures are logged and never
// rejoin the caller's control flow.
type Notifier struct {
	publisher eventPublisher
	logg      *logger.Logger
	timeout   time.Duration
	retries   uint64
	now       func() time.Time
}

// NotifierParams carries the notifier dependencies.
type NotifierParams struct {
	Publisher eventPublisher
	Logger    *logger.Logger
	Timeout   time.Duration
	Retries   uint64
	Now       func() time.Time
}

// NewNotifier wires the generation notifier.
func NewNotifier(params NotifierParams) (*Notifier, error) {
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		publisher: params.Publisher,
		logg:      params.Logger,
		timeout:   timeout,
		retries:   params.Retries,
		now:       now,
	}, nil
}

// NotifyRunCompleted publishes a success or partial-failure event for a
// completed run. Empty runs (no eligible cycle) are not announced.
func (n *Notifier) NotifyRunCompleted(result *Result) {
	if result == nil || result.Empty() {
		return
	}

	kind := enums.NotificationKindGenerationSuccess
	if result.HasFailures() {
		kind = enums.NotificationKindGenerationPartial
	}

	go n.send(Event{
		Kind:       kind,
		Result:     result,
		OccurredAt: n.now(),
	})
}

// NotifyRunFailure publishes a minimal event when the generation call
// itself failed before producing any result.
func (n *Notifier) NotifyRunFailure(runErr error) {
	if runErr == nil {
		return
	}

	go n.send(Event{
		Kind:       enums.NotificationKindGenerationFailed,
		Error:      runErr.Error(),
		OccurredAt: n.now(),
	})
}

func (n *Notifier) send(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	data, err := json.Marshal(event)
	if err != nil {
		n.logg.Error(ctx, "marshaling generation event", err)
		return
	}

	attrs := map[string]string{"kind": event.Kind.String()}

	backoff := retry.WithMaxRetries(n.retries, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := n.publisher.Publish(ctx, data, attrs); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		n.logg.Error(ctx, "publishing generation event", err)
		return
	}

	n.logg.Info(n.logg.WithField(ctx, "kind", event.Kind.String()), "generation event published")
}
