package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeFragment struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Universe    string            `gorm:"type:varchar(16);not null;uniqueIndex:idx_fragment_universe_key"`
	FragmentKey string            `gorm:"type:text;not null;uniqueIndex:idx_fragment_universe_key"`
	Content     string            `gorm:"type:text;not null"`
	MediaRef    *string           `gorm:"type:text"`
	Embedding   pgvector.Vector   `gorm:"type:vector(1536)"` // text-embedding-ada-002 uses 1536 dimensions
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (KnowledgeFragment) TableName() string {
	return "knowledge_fragments"
}
