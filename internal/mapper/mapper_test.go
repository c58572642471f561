package mapper

import (
	"testing"
	"time"

	"escapadas-chatbot-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeFragmentMapperKeepsVectorAndMediaRef(t *testing.T) {
	m := NewKnowledgeFragmentMapper()
	sticker := "sticker-01"
	in := &entity.KnowledgeFragment{
		Id:          uuid.New(),
		Universe:    "faq",
		FragmentKey: "How do I register?",
		Content:     "Sign up on the site.",
		MediaRef:    &sticker,
		Embedding:   []float32{0.1, 0.2, 0.3},
		Metadata:    map[string]interface{}{"source": "faq_data.json"},
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	mdl := m.ToModel(in)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, mdl.Embedding.Slice())
	assert.True(t, mdl.UpdatedAt.IsZero())

	out := m.ToEntity(mdl)
	require.NotNil(t, out.MediaRef)
	assert.Equal(t, "sticker-01", *out.MediaRef)
	assert.Equal(t, in.Embedding, out.Embedding)
	assert.Equal(t, "faq_data.json", out.Metadata["source"])
	assert.Nil(t, out.UpdatedAt)

	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestInteractionRowOrder(t *testing.T) {
	i := &entity.Interaction{
		ConversationId: "10.0.0.7",
		Question:       "q",
		Answer:         "a",
		Origin:         "faq",
		BusinessType:   "hotel",
		Intent:         "register",
		KnowledgeLevel: "new",
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, []interface{}{
		"2025-06-01T12:00:00Z", "10.0.0.7", "q", "a", "faq", "hotel", "register", "new",
	}, i.Row())

	back := NewInteractionMapper().ToEntity(NewInteractionMapper().ToModel(i))
	assert.Equal(t, i, back)
}
