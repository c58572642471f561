package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"escapadas-chatbot-be/internal/repository/memory"
	"escapadas-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const persona = "You help tourism businesses."

func newMemory(maxTurns int) *Memory {
	return NewMemory(memory.NewSessionRepository(), persona, maxTurns)
}

func userTurn(i int) llm.Message {
	return llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("message #%d", i)}
}

func TestGetOrCreateSeedsPersona(t *testing.T) {
	m := newMemory(DefaultMaxTurns)

	c := m.GetOrCreate("10.0.0.1")
	require.Len(t, c.Turns, 1)
	assert.Equal(t, llm.RoleSystem, c.Turns[0].Role)
	assert.Equal(t, persona, c.Turns[0].Content)

	// returned conversations are copies
	c.Turns = append(c.Turns, userTurn(1))
	assert.Len(t, m.GetOrCreate("10.0.0.1").Turns, 1)
}

func TestCapIsIdempotent(t *testing.T) {
	turns := []llm.Message{{Role: llm.RoleSystem, Content: persona}}
	for i := 1; i <= 25; i++ {
		turns = append(turns, userTurn(i))
	}

	for _, maxTurns := range []int{1, 2, 5, 10, 30} {
		once := Cap(turns, maxTurns)
		twice := Cap(once, maxTurns)
		assert.Equal(t, once, twice, "maxTurns=%d", maxTurns)
	}
}

func TestCapDoesNotModifyInput(t *testing.T) {
	turns := []llm.Message{{Role: llm.RoleSystem, Content: persona}, userTurn(1), userTurn(2), userTurn(3)}
	before := append([]llm.Message(nil), turns...)

	_ = Cap(turns, 2)
	assert.Equal(t, before, turns)
}

func TestAppendKeepsCapAndPersona(t *testing.T) {
	m := newMemory(DefaultMaxTurns)

	for i := 1; i <= 40; i++ {
		role := llm.RoleUser
		if i%2 == 0 {
			role = llm.RoleAssistant
		}
		c := m.Append("u1", llm.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
		assert.LessOrEqual(t, len(c.Turns), DefaultMaxTurns)
		assert.Equal(t, llm.RoleSystem, c.Turns[0].Role)
		assert.Equal(t, persona, c.Turns[0].Content)
	}
}

func TestElevenUserMessagesTrimOldest(t *testing.T) {
	m := newMemory(DefaultMaxTurns)

	for i := 1; i <= 11; i++ {
		m.Append("u1", userTurn(i))
	}

	c := m.GetOrCreate("u1")
	require.Len(t, c.Turns, DefaultMaxTurns)
	assert.Equal(t, persona, c.Turns[0].Content)
	assert.Equal(t, "message #3", c.Turns[1].Content)
	assert.Equal(t, "message #11", c.Turns[len(c.Turns)-1].Content)
}

func TestEnforceCapIdempotentOnStoredHistory(t *testing.T) {
	m := newMemory(4)
	for i := 1; i <= 6; i++ {
		m.Append("u1", userTurn(i))
	}

	first := m.EnforceCap("u1")
	second := m.EnforceCap("u1")
	assert.Equal(t, first.Turns, second.Turns)
	assert.Len(t, second.Turns, 4)
}

func TestConversationsAreIsolated(t *testing.T) {
	m := newMemory(DefaultMaxTurns)
	m.Append("a", userTurn(1))
	m.Append("a", userTurn(2))
	m.Append("b", userTurn(1))

	assert.Len(t, m.GetOrCreate("a").Turns, 3)
	assert.Len(t, m.GetOrCreate("b").Turns, 2)
}

func TestLockSerializesSameIdentity(t *testing.T) {
	m := newMemory(100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := m.Lock("shared")
			defer unlock()
			m.Append("shared", userTurn(i))
			m.Append("shared", llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("reply #%d", i)})
		}(i)
	}
	wg.Wait()

	c := m.GetOrCreate("shared")
	require.Len(t, c.Turns, 41)
	for k := 1; k < len(c.Turns); k += 2 {
		var n int
		_, err := fmt.Sscanf(c.Turns[k].Content, "message #%d", &n)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("reply #%d", n), c.Turns[k+1].Content)
	}
}

func TestLockDoesNotBlockOtherIdentities(t *testing.T) {
	m := newMemory(DefaultMaxTurns)
	unlock := m.Lock("busy")
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := m.Lock("free")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different identity blocked")
	}
}
