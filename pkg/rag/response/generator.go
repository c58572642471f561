package response

import (
	"context"
	"fmt"
	"strings"

	"escapadas-chatbot-be/internal/constant"
	"escapadas-chatbot-be/pkg/llm"
)

// Paraphraser softens the tone of a stored FAQ answer while keeping its
// content and formatting.
type Paraphraser struct {
	llmProvider llm.LLMProvider
	style       string
}

func NewParaphraser(llmProvider llm.LLMProvider, style string) *Paraphraser {
	if strings.TrimSpace(style) == "" {
		style = constant.ParaphraseStyle
	}
	return &Paraphraser{
		llmProvider: llmProvider,
		style:       style,
	}
}

// Paraphrase sends one user turn carrying the instruction and the answer.
func (p *Paraphraser) Paraphrase(ctx context.Context, text string, opts ...llm.Option) (string, error) {
	prompt := BuildParaphrasePrompt(p.style, text)
	return p.llmProvider.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func BuildParaphrasePrompt(style, text string) string {
	return fmt.Sprintf(constant.ParaphrasePrompt, style) + "\n\n" + text
}
