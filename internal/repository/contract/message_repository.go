package contract

import (
	"context"

	"infoguru-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindAllByChat returns messages oldest first.
	FindAllByChat(ctx context.Context, chatId uuid.UUID) ([]*entity.Message, error)
}
