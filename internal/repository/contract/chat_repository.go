package contract

import (
	"context"

	"infoguru-be/internal/entity"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Chat, error)
}
