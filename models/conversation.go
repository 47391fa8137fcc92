package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationMessage is a single turn in a persona conversation log.
// Role is "user" or "assistant". Messages are unique per
// (conversation_id, message_seq).
type ConversationMessage struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	ConversationID       string    `gorm:"size:100;not null;uniqueIndex:idx_conversation_seq" json:"conversation_id" binding:"required"`
	MessageSeq           uint      `gorm:"not null;uniqueIndex:idx_conversation_seq" json:"message_seq"`
	PersonaID            string    `gorm:"size:50;index" json:"persona_id"`
	Role                 string    `gorm:"size:20;not null" json:"role"`
	Timestamp            time.Time `json:"timestamp"`
	Intent               string    `gorm:"size:100" json:"intent"`
	Channel              string    `gorm:"size:50" json:"channel"`
	Language             string    `gorm:"size:50" json:"language"`
	StyleTags            string    `gorm:"size:255" json:"style_tags,omitempty"` // semicolon separated
	RelatedTransactionID string    `gorm:"size:100" json:"related_transaction_id,omitempty"`
	Text                 string    `gorm:"type:text" json:"text"`
}

func (ConversationMessage) TableName() string { return "conversation_messages" }

// BeforeCreate stamps messages that arrive without a timestamp.
func (m *ConversationMessage) BeforeCreate(_ *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}
