package factory

import (
	"testing"

	"escapadas-chatbot-be/pkg/llm/ollama"
	"escapadas-chatbot-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("openai", "gpt-4o-mini", "", "sk-test")
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider("ollama", "llama3", "", "")
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider("openai", "", "", "")
	assert.Error(t, err)

	_, err = NewLLMProvider("bard", "", "", "")
	assert.Error(t, err)
}
