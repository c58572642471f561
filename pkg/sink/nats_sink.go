package sink

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/pkg/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventSink publishes every interaction on the event bus.
type EventSink struct {
	publisher EventPublisher
}

func NewEventSink(publisher EventPublisher) *EventSink {
	return &EventSink{publisher: publisher}
}

func (s *EventSink) Name() string {
	return "nats"
}

func (s *EventSink) Record(ctx context.Context, interaction *entity.Interaction) error {
	return s.publisher.Publish(ctx, events.NewInteractionRecorded(interaction))
}
