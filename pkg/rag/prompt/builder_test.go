package prompt

import (
	"testing"

	"escapadas-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleOrdering(t *testing.T) {
	a := NewAssembler("persona", "use <p> paragraphs")
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "stored persona"},
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "<p>hello</p><br>"},
	}

	got := a.Assemble(history, "Plans start free.", "how much?")
	require.Len(t, got, 6)

	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "stored persona"}, got[0])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "use <p> paragraphs"}, got[1])
	assert.Equal(t, llm.RoleSystem, got[2].Role)
	assert.Contains(t, got[2].Content, "Plans start free.")
	assert.Equal(t, history[1], got[3])
	assert.Equal(t, history[2], got[4])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "how much?"}, got[5])
}

func TestAssembleWithoutContextOrHistory(t *testing.T) {
	a := NewAssembler("persona", "directive")

	got := a.Assemble(nil, "  ", "hello")
	require.Len(t, got, 3)
	assert.Equal(t, "persona", got[0].Content)
	assert.Equal(t, "directive", got[1].Content)
	assert.Equal(t, llm.RoleUser, got[2].Role)
}

func TestAssembleIsDeterministicAndPure(t *testing.T) {
	a := NewAssembler("persona", "directive")
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "persona"},
		{Role: llm.RoleUser, Content: "q1"},
	}
	snapshot := append([]llm.Message(nil), history...)

	first := a.Assemble(history, "ctx", "q2")
	second := a.Assemble(history, "ctx", "q2")
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, history)
	assert.Equal(t, llm.RoleUser, first[len(first)-1].Role)
}
