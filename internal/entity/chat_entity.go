package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

func (r MessageRole) Valid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

type Chat struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	CreatedAt time.Time
}

// OwnedBy reports whether the chat belongs to userId.
func (c *Chat) OwnedBy(userId uuid.UUID) bool {
	return c != nil && c.UserId == userId
}

// Message is append-only; CreatedAt is the ordering key within a chat.
type Message struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}
