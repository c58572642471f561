package store

import (
	"time"

	"escapadas-chatbot-be/pkg/llm"
)

// Conversation is the bounded in-memory history of one client identity.
// Turns[0] is always the persona turn.
type Conversation struct {
	ID        string        `json:"id"` // client identity
	Turns     []llm.Message `json:"turns"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Clone returns a copy whose turn slice can be modified freely.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Turns = make([]llm.Message, len(c.Turns))
	copy(cp.Turns, c.Turns)
	return &cp
}
