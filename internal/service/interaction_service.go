package service

import (
	"context"
	"encoding/json"
	"time"

	"escapadas-chatbot-be/internal/dto"
	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/observability"
	"escapadas-chatbot-be/internal/pkg/logger"
	"escapadas-chatbot-be/pkg/rag/profile"
	"escapadas-chatbot-be/pkg/sink"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IInteractionPublisher hands answered messages to the background consumer.
// Publishing never fails the request.
type IInteractionPublisher interface {
	Publish(ctx context.Context, interaction *dto.InteractionMessage)
}

type IInteractionConsumer interface {
	Consume(ctx context.Context) error
}

// ProfileClassifier describes the sender of a message.
type ProfileClassifier interface {
	Classify(ctx context.Context, message string) profile.Profile
}

type interactionPublisher struct {
	publisher message.Publisher
	topicName string
	metrics   *observability.Metrics
	logger    logger.ILogger
}

func NewInteractionPublisher(
	publisher message.Publisher,
	topicName string,
	metrics *observability.Metrics,
	logger logger.ILogger,
) IInteractionPublisher {
	return &interactionPublisher{
		publisher: publisher,
		topicName: topicName,
		metrics:   metrics,
		logger:    logger,
	}
}

func (p *interactionPublisher) Publish(_ context.Context, interaction *dto.InteractionMessage) {
	payload, err := json.Marshal(interaction)
	if err != nil {
		p.logger.Warn("INTERACTION", "Failed to encode interaction", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Warn("INTERACTION", "Failed to publish interaction", map[string]interface{}{
			"conversation_id": interaction.ConversationId,
			"error":           err.Error(),
		})
		return
	}
	p.metrics.InteractionsSent.Inc()
}

type interactionConsumer struct {
	subscriber message.Subscriber
	topicName  string
	classifier ProfileClassifier
	sinks      []sink.Sink
	timeout    time.Duration
	metrics    *observability.Metrics
	logger     logger.ILogger
}

// NewInteractionConsumer builds the consumer. classifier may be nil, in
// which case every profile is unknown.
func NewInteractionConsumer(
	subscriber message.Subscriber,
	topicName string,
	classifier ProfileClassifier,
	sinks []sink.Sink,
	timeout time.Duration,
	metrics *observability.Metrics,
	logger logger.ILogger,
) IInteractionConsumer {
	return &interactionConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		classifier: classifier,
		sinks:      sinks,
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger,
	}
}

func (ic *interactionConsumer) Consume(ctx context.Context) error {
	messages, err := ic.subscriber.Subscribe(ctx, ic.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ic.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: sinks are best effort and a redelivery would
// duplicate rows in the sinks that did succeed.
func (ic *interactionConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.InteractionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ic.logger.Warn("INTERACTION", "Dropping malformed interaction", map[string]interface{}{"error": err.Error()})
		return
	}

	recordCtx, cancel := context.WithTimeout(ctx, ic.timeout)
	defer cancel()

	p := profile.UnknownProfile()
	if ic.classifier != nil {
		p = ic.classifier.Classify(recordCtx, payload.Question)
	}

	interaction := toInteraction(&payload, p)
	for _, s := range ic.sinks {
		if err := s.Record(recordCtx, interaction); err != nil {
			ic.metrics.SinkFailures.WithLabelValues(s.Name()).Inc()
			ic.logger.Warn("INTERACTION", "Sink failed to record interaction", map[string]interface{}{
				"sink":            s.Name(),
				"conversation_id": payload.ConversationId,
				"error":           err.Error(),
			})
		}
	}
}

func toInteraction(payload *dto.InteractionMessage, p profile.Profile) *entity.Interaction {
	id, err := uuid.Parse(payload.Id)
	if err != nil {
		id = uuid.New()
	}
	return &entity.Interaction{
		Id:             id,
		ConversationId: payload.ConversationId,
		Question:       payload.Question,
		Answer:         payload.Answer,
		Origin:         payload.Origin,
		BusinessType:   p.BusinessType,
		Intent:         p.Intent,
		KnowledgeLevel: p.KnowledgeLevel,
		FragmentKey:    payload.FragmentId,
		Score:          payload.Score,
		CreatedAt:      payload.CreatedAt,
	}
}
