package mapper

import (
	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/model"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}
	return &entity.Interaction{
		Id:             i.Id,
		ConversationId: i.ConversationId,
		Question:       i.Question,
		Answer:         i.Answer,
		Origin:         i.Origin,
		BusinessType:   i.BusinessType,
		Intent:         i.Intent,
		KnowledgeLevel: i.KnowledgeLevel,
		FragmentKey:    i.FragmentKey,
		Score:          i.Score,
		CreatedAt:      i.CreatedAt,
	}
}

func (m *InteractionMapper) ToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}
	return &model.Interaction{
		Id:             i.Id,
		ConversationId: i.ConversationId,
		Question:       i.Question,
		Answer:         i.Answer,
		Origin:         i.Origin,
		BusinessType:   i.BusinessType,
		Intent:         i.Intent,
		KnowledgeLevel: i.KnowledgeLevel,
		FragmentKey:    i.FragmentKey,
		Score:          i.Score,
		CreatedAt:      i.CreatedAt,
	}
}
