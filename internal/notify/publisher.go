package notify

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// Publisher adapts a Pub/Sub publisher to the synchronous interface the
// generation notifier expects.
type Publisher struct {
	pub *pubsub.Publisher
}

// NewPublisher wraps the given Pub/Sub publisher handle.
func NewPublisher(pub *pubsub.Publisher) (*Publisher, error) {
	if pub == nil {
		return nil, fmt.Errorf("pubsub publisher is required")
	}
	return &Publisher{pub: pub}, nil
}

// Publish sends one message and waits for the server acknowledgement.
func (p *Publisher) Publish(ctx context.Context, data []byte, attrs map[string]string) error {
	result := p.pub.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing generation event: %w", err)
	}
	return nil
}
