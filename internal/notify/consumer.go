package notify

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/bloomcrate/bloomcrate-backend/internal/generation"
	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
	"github.com/bloomcrate/bloomcrate-backend/pkg/logger"
)

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches generation events and turns them into stored operator
// notifications.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer builds a generation notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("generation subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg.ID, msg.Data, msg.Attributes) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// process handles one event. Returns true when the message should be
// acked. Malformed payloads are acked; they will never become valid.
func (c *Consumer) process(ctx context.Context, messageID string, data []byte, attrs map[string]string) bool {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"kind":       attrs["kind"],
	})

	var event generation.Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode generation event", err)
		return true
	}

	if !event.Kind.IsValid() {
		c.logg.Warn(logCtx, "skipping unknown event kind")
		return true
	}

	notification := buildNotification(event)
	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "failed to store notification", err)
		return false
	}

	c.logg.Info(logCtx, "notification stored")
	return true
}

func buildNotification(event generation.Event) *models.Notification {
	payload, _ := json.Marshal(event)

	n := &models.Notification{
		Kind:    event.Kind,
		Payload: payload,
	}

	switch event.Kind {
	case enums.NotificationKindGenerationSuccess:
		n.Title = "Order generation completed"
		n.Message = summarize(event.Result)
	case enums.NotificationKindGenerationPartial:
		n.Title = "Order generation completed with errors"
		n.Message = summarize(event.Result)
	default:
		n.Title = "Order generation run failed"
		n.Message = event.Error
	}
	return n
}

func summarize(result *generation.Result) string {
	if result == nil {
		return ""
	}
	return fmt.Sprintf(
		"generated %d, skipped %d, excluded %d, errors %d",
		result.Generated, result.Skipped, result.Excluded, result.Errors,
	)
}
