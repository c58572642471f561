package events

import (
	"time"

	"escapadas-chatbot-be/internal/entity"
)

const TypeInteractionRecorded = "interaction.recorded"

// NewInteractionRecorded wraps an answered message for the event bus.
func NewInteractionRecorded(i *entity.Interaction) BaseEvent {
	return BaseEvent{
		Type: TypeInteractionRecorded,
		Data: map[string]interface{}{
			"id":              i.Id.String(),
			"timestamp":       i.CreatedAt.Format(time.RFC3339),
			"conversation_id": i.ConversationId,
			"question":        i.Question,
			"answer":          i.Answer,
			"origin":          i.Origin,
			"business_type":   i.BusinessType,
			"intent":          i.Intent,
			"knowledge_level": i.KnowledgeLevel,
			"fragment_id":     i.FragmentKey,
			"score":           i.Score,
		},
		OccurredAt: i.CreatedAt,
	}
}
