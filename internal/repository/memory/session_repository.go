package memory

import (
	"escapadas-chatbot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps conversations for the process lifetime. Entries never
// expire; history size is bounded by the session memory cap instead.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(conversation *store.Conversation) {
	r.cache.Set(conversation.ID, conversation, cache.NoExpiration)
}

// Add stores the conversation only if none exists for its id.
func (r *SessionRepository) Add(conversation *store.Conversation) bool {
	return r.cache.Add(conversation.ID, conversation, cache.NoExpiration) == nil
}

func (r *SessionRepository) Get(conversationID string) (*store.Conversation, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.Conversation), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
