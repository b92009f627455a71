package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageSender identifies which side of a conversation produced a message.
type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "assistant"
)

// Conversation is a chat session owned by exactly one user. MessageCount,
// LastMessage and LastMessageAt change only as a side effect of appending
// a turn; CreatedAt is immutable.
type Conversation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	LastMessage   string    `gorm:"type:varchar(255)" json:"lastMessage,omitempty"`
	LastMessageAt time.Time `gorm:"not null" json:"lastMessageAt"`
	MessageCount  int       `gorm:"not null;default:0" json:"messageCount"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Message is one turn of a conversation. Messages are append-only and never
// mutated after creation. Seq is a per-conversation counter that breaks
// timestamp ties so ordering by (timestamp, seq) reproduces insertion order
// under coarse clock resolution.
type Message struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"conversationId"`
	Sender         MessageSender `gorm:"type:varchar(20);not null" json:"sender"`
	Content        string        `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time     `gorm:"not null;index" json:"timestamp"`
	Seq            int           `gorm:"not null" json:"-"`
	Sources        []string      `gorm:"serializer:json" json:"sources,omitempty"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
