package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// LogEvents subscribes to topic and logs every event it receives until ctx is done
// or the subscriber is closed. Malformed messages are logged and acked.
func LogEvents(ctx context.Context, subscriber message.Subscriber, topic string, logger *slog.Logger) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			event, _, err := DecodeEvent(msg)
			if err != nil {
				logger.WarnContext(ctx, "Dropping undecodable event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			logger.InfoContext(ctx, "Event received",
				"event_id", event.ID,
				"event_type", event.Type,
				"topic", topic)
			msg.Ack()
		}
	}()

	return nil
}
