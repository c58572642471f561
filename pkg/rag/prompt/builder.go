package prompt

import (
	"strings"

	"escapadas-chatbot-be/pkg/llm"
)

// Assembler builds the exact message sequence sent to the LLM. The persona and
// reinforcement directive are opaque configuration loaded at startup.
type Assembler struct {
	persona       string
	reinforcement string
}

func NewAssembler(persona, reinforcement string) *Assembler {
	return &Assembler{
		persona:       persona,
		reinforcement: reinforcement,
	}
}

func (a *Assembler) Persona() string {
	return a.persona
}

// Assemble returns [persona, reinforcement, context?, ...prior, user].
// history is the stored conversation; a leading system turn is taken as the
// persona, otherwise the configured persona is used. history is not modified.
func (a *Assembler) Assemble(history []llm.Message, contextText, userMessage string) []llm.Message {
	persona := llm.Message{Role: llm.RoleSystem, Content: a.persona}
	prior := history
	if len(history) > 0 && history[0].Role == llm.RoleSystem {
		persona = history[0]
		prior = history[1:]
	}

	out := make([]llm.Message, 0, len(prior)+4)
	out = append(out, persona)
	if a.reinforcement != "" {
		out = append(out, llm.Message{Role: llm.RoleUser, Content: a.reinforcement})
	}
	if strings.TrimSpace(contextText) != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: contextTurn(contextText)})
	}
	out = append(out, prior...)
	out = append(out, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return out
}

func contextTurn(text string) string {
	var b strings.Builder
	b.WriteString("<reference_material>\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n</reference_material>\n")
	b.WriteString("Use the reference material above only when it is relevant to the question.")
	return b.String()
}
