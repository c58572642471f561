package specification

import "gorm.io/gorm"

type ByUniverse struct {
	Universe string
}

func (s ByUniverse) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("universe = ?", s.Universe)
}

type ByConversation struct {
	ConversationId string
}

func (s ByConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationId)
}

type ByOrigin struct {
	Origin string
}

func (s ByOrigin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("origin = ?", s.Origin)
}
