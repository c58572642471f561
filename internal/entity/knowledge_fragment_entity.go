package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeFragment struct {
	Id          uuid.UUID
	Universe    string
	FragmentKey string
	Content     string
	MediaRef    *string
	Embedding   []float32
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
