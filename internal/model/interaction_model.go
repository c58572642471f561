package model

import (
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId string    `gorm:"type:varchar(255);not null;index"`
	Question       string    `gorm:"type:text"`
	Answer         string    `gorm:"type:text"`
	Origin         string    `gorm:"type:varchar(16);index"`
	BusinessType   string    `gorm:"type:varchar(32)"`
	Intent         string    `gorm:"type:varchar(32)"`
	KnowledgeLevel string    `gorm:"type:varchar(32)"`
	FragmentKey    string    `gorm:"type:text"`
	Score          float64
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (Interaction) TableName() string {
	return "interactions"
}
