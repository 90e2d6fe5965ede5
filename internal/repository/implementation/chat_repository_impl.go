package implementation

import (
	"context"
	"errors"

	"infoguru-be/internal/entity"
	"infoguru-be/internal/mapper"
	"infoguru-be/internal/model"
	"infoguru-be/internal/repository/contract"
	"infoguru-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ChatToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	var m model.Chat
	query := specification.ApplyAll(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := specification.ApplyAll(r.db.WithContext(ctx),
		specification.UserOwnedBy{UserID: userId},
		specification.Chronological{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ChatsToEntities(models), nil
}
