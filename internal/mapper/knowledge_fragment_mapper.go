package mapper

import (
	"time"

	"escapadas-chatbot-be/internal/entity"
	"escapadas-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeFragmentMapper struct{}

func NewKnowledgeFragmentMapper() *KnowledgeFragmentMapper {
	return &KnowledgeFragmentMapper{}
}

func (m *KnowledgeFragmentMapper) ToEntity(f *model.KnowledgeFragment) *entity.KnowledgeFragment {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeFragment{
		Id:          f.Id,
		Universe:    f.Universe,
		FragmentKey: f.FragmentKey,
		Content:     f.Content,
		MediaRef:    f.MediaRef,
		Embedding:   f.Embedding.Slice(),
		Metadata:    map[string]interface{}(f.Metadata),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *KnowledgeFragmentMapper) ToModel(f *entity.KnowledgeFragment) *model.KnowledgeFragment {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.KnowledgeFragment{
		Id:          f.Id,
		Universe:    f.Universe,
		FragmentKey: f.FragmentKey,
		Content:     f.Content,
		MediaRef:    f.MediaRef,
		Embedding:   pgvector.NewVector(f.Embedding),
		Metadata:    datatypes.JSONMap(f.Metadata),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *KnowledgeFragmentMapper) ToEntities(fragments []*model.KnowledgeFragment) []*entity.KnowledgeFragment {
	entities := make([]*entity.KnowledgeFragment, len(fragments))
	for i, f := range fragments {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *KnowledgeFragmentMapper) ToModels(fragments []*entity.KnowledgeFragment) []*model.KnowledgeFragment {
	models := make([]*model.KnowledgeFragment, len(fragments))
	for i, f := range fragments {
		models[i] = m.ToModel(f)
	}
	return models
}
