package sink

import (
	"context"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/pkg/logger"
)

// LogSink writes the interaction transcript to a dedicated log.
type LogSink struct {
	logger logger.ILogger
}

func NewLogSink(l logger.ILogger) *LogSink {
	return &LogSink{logger: l}
}

func (s *LogSink) Name() string {
	return "log"
}

func (s *LogSink) Record(_ context.Context, interaction *entity.Interaction) error {
	s.logger.Info("INTERACTION", "Interaction recorded", map[string]interface{}{
		"id":              interaction.Id.String(),
		"conversation_id": interaction.ConversationId,
		"question":        interaction.Question,
		"answer":          interaction.Answer,
		"origin":          interaction.Origin,
		"business_type":   interaction.BusinessType,
		"intent":          interaction.Intent,
		"knowledge_level": interaction.KnowledgeLevel,
	})
	return nil
}
