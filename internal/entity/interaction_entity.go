package entity

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one answered message as recorded by the sinks.
type Interaction struct {
	Id             uuid.UUID
	ConversationId string
	Question       string
	Answer         string
	Origin         string
	BusinessType   string
	Intent         string
	KnowledgeLevel string
	FragmentKey    string
	Score          float64
	CreatedAt      time.Time
}

// Row returns the spreadsheet columns in their fixed order.
func (i *Interaction) Row() []interface{} {
	return []interface{}{
		i.CreatedAt.Format(time.RFC3339),
		i.ConversationId,
		i.Question,
		i.Answer,
		i.Origin,
		i.BusinessType,
		i.Intent,
		i.KnowledgeLevel,
	}
}
