package domain

import "time"

// RoomType represents the room type
type RoomType string

const (
	RoomTypeGroup  RoomType = "group"
	RoomTypeDirect RoomType = "direct"
)

// InboundMessage represents a message received from Webex.
// Immutable once created.
type InboundMessage struct {
	RoomID          string
	SenderEmail     string
	Text            string
	MentionStripped bool // leading bot mention was removed from Text
	ArrivedAt       time.Time
}

// Role represents who produced a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single conversation turn
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}
