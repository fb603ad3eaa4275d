package models

import "time"

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeSystem    MessageType = "system"
)

// ParseMessageType maps arbitrary input to a known message type, defaulting
// to user for anything unrecognized.
func ParseMessageType(raw string) MessageType {
	switch MessageType(raw) {
	case MessageTypeAssistant:
		return MessageTypeAssistant
	case MessageTypeSystem:
		return MessageTypeSystem
	default:
		return MessageTypeUser
	}
}

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationArchived ConversationStatus = "archived"
	ConversationDeleted  ConversationStatus = "deleted"
)

// Conversation is a titled, owned thread of messages. MessageCount is
// denormalized and recomputed on every message write.
type Conversation struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Title        string             `json:"title,omitempty"`
	Status       ConversationStatus `json:"status"`
	UserType     string             `json:"user_type,omitempty"`
	MessageCount int                `json:"message_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Message is one turn in a conversation. Messages are immutable once
// written; ordering within a conversation is by CreatedAt.
type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Content        string         `json:"content"`
	MessageType    MessageType    `json:"message_type"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
