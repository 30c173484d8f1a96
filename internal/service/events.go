package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/blog_platform/internal/logging"
)

// EventPublisher is satisfied by *mykafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

const publishTimeout = 5 * time.Second

// publish is best effort: a failed publish is logged and never fails the
// operation that produced the event.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	event["eventID"] = uuid.NewString()
	event["at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
