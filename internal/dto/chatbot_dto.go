package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	// Optional; the client address is used when empty.
	ClientIdentity string `json:"client_identity,omitempty" validate:"max=255"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Sticker  string `json:"sticker,omitempty"`
	Origin   string `json:"origin"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	FAQFragments   int    `json:"faq_fragments"`
	ChunkFragments int    `json:"chunk_fragments"`
	Conversations  int    `json:"conversations"`
}

// InteractionMessage is the payload published for every answered message.
type InteractionMessage struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Origin         string    `json:"origin"`
	FragmentId     string    `json:"fragment_id"`
	Score          float64   `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}
