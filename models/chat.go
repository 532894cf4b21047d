// models/chat.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ChatSession struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	UserID string `gorm:"not null;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	User     User          `gorm:"foreignKey:UserID" json:"-"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type ChatMessage struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	SessionID string      `gorm:"not null;index" json:"session_id"`
	Content   string      `gorm:"not null;type:text" json:"content"`
	Role      MessageRole `gorm:"not null" json:"role"`

	// Optional client hints for the AI context builder: MessageType is one of
	// "text", "note", "note-list"; Metadata is a raw JSON payload.
	MessageType string `json:"message_type,omitempty"`
	Metadata    string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"timestamp"`

	Session ChatSession `gorm:"foreignKey:SessionID" json:"-"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
