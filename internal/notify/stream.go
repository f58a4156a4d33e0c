package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"roomfindr-data/pkg/redisx"
)

// StreamNotifier publishes notifications to a Redis Stream for the in-app
// notification consumer to drain.
type StreamNotifier struct {
	client *redis.Client
	stream string
}

func NewStreamNotifier(client *redis.Client, stream string) *StreamNotifier {
	if stream == "" {
		stream = "roomfindr:notifications"
	}
	return &StreamNotifier{client: client, stream: stream}
}

var _ Notifier = (*StreamNotifier)(nil)

func (s *StreamNotifier) Notify(ctx context.Context, n Notification) error {
	if _, err := redisx.PublishJSONToStream(ctx, s.client, s.stream, n); err != nil {
		return fmt.Errorf("failed to publish notification to stream: %w", err)
	}
	return nil
}
