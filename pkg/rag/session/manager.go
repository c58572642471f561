package session

import (
	"sync"
	"time"

	"escapadas-chatbot-be/pkg/llm"
	"escapadas-chatbot-be/pkg/store"
)

// DefaultMaxTurns bounds a conversation, persona turn included.
const DefaultMaxTurns = 10

// Store persists conversations keyed by client identity.
type Store interface {
	Get(conversationID string) (*store.Conversation, bool)
	Add(conversation *store.Conversation) bool
	Save(conversation *store.Conversation)
}

// Memory owns every conversation history. Callers serialize work on the same
// identity with Lock; different identities never contend.
type Memory struct {
	store    Store
	persona  string
	maxTurns int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemory creates a session memory seeding new conversations with persona.
func NewMemory(s Store, persona string, maxTurns int) *Memory {
	if maxTurns < 2 {
		maxTurns = DefaultMaxTurns
	}
	return &Memory{
		store:    s,
		persona:  persona,
		maxTurns: maxTurns,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Memory) MaxTurns() int {
	return m.maxTurns
}

// Lock acquires the exclusive lock of a conversation and returns its release func.
func (m *Memory) Lock(conversationID string) func() {
	m.mu.Lock()
	l, ok := m.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[conversationID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// GetOrCreate returns a copy of the conversation, creating it with the persona
// turn on first use.
func (m *Memory) GetOrCreate(conversationID string) *store.Conversation {
	if c, ok := m.store.Get(conversationID); ok {
		return c.Clone()
	}

	now := time.Now().UTC()
	c := &store.Conversation{
		ID:        conversationID,
		Turns:     []llm.Message{{Role: llm.RoleSystem, Content: m.persona}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !m.store.Add(c) {
		// Lost a creation race; the stored one wins.
		if existing, ok := m.store.Get(conversationID); ok {
			return existing.Clone()
		}
	}
	return c.Clone()
}

// Append adds a turn and enforces the cap.
func (m *Memory) Append(conversationID string, turn llm.Message) *store.Conversation {
	c := m.GetOrCreate(conversationID)
	c.Turns = Cap(append(c.Turns, turn), m.maxTurns)
	c.UpdatedAt = time.Now().UTC()
	m.store.Save(c)
	return c.Clone()
}

// EnforceCap trims the stored conversation to the cap. Idempotent.
func (m *Memory) EnforceCap(conversationID string) *store.Conversation {
	c := m.GetOrCreate(conversationID)
	if len(c.Turns) > m.maxTurns {
		c.Turns = Cap(c.Turns, m.maxTurns)
		c.UpdatedAt = time.Now().UTC()
		m.store.Save(c)
	}
	return c.Clone()
}

// Cap keeps turns[0] plus the newest maxTurns-1 turns. It never modifies the
// input slice.
func Cap(turns []llm.Message, maxTurns int) []llm.Message {
	if len(turns) == 0 {
		return []llm.Message{}
	}
	if maxTurns < 1 {
		maxTurns = 1
	}
	if len(turns) <= maxTurns {
		out := make([]llm.Message, len(turns))
		copy(out, turns)
		return out
	}

	out := make([]llm.Message, 0, maxTurns)
	out = append(out, turns[0])
	out = append(out, turns[len(turns)-(maxTurns-1):]...)
	return out
}
