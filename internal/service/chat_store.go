package service

import (
	"context"
	"time"

	"infoguru-be/internal/constant"
	"infoguru-be/internal/entity"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const chatStoreModule = "chat_store"

type IChatStore interface {
	CreateChat(ctx context.Context, userId uuid.UUID, name string) (*entity.Chat, error)
	GetChatById(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error)
	// AppendMessage persists immediately; at is the ordering key.
	AppendMessage(ctx context.Context, chat *entity.Chat, role entity.MessageRole, content string, at time.Time) (*entity.Message, error)
	ListMessages(ctx context.Context, chatId uuid.UUID) ([]*entity.Message, error)
	ListChatsForUser(ctx context.Context, userId uuid.UUID) ([]*entity.Chat, error)
	// RecordExchange stores a user turn and its reply in one transaction,
	// creating the chat first when Exchange.Chat is nil.
	RecordExchange(ctx context.Context, ex *Exchange) (*entity.Chat, error)
}

type Exchange struct {
	Chat     *entity.Chat
	UserId   uuid.UUID
	ChatName string

	UserText string
	UserAt   time.Time
	Reply    string
	ReplyAt  time.Time
}

type chatStore struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewChatStore(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IChatStore {
	return &chatStore{uowFactory: uowFactory, logger: log}
}

func newChat(userId uuid.UUID, name string) *entity.Chat {
	if name == "" {
		name = constant.DefaultChatName
	}
	return &entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func newMessage(chat *entity.Chat, role entity.MessageRole, content string, at time.Time) (*entity.Message, error) {
	if chat == nil {
		return nil, apperror.NotFound("Chat not found")
	}
	if !role.Valid() {
		return nil, apperror.BadRequest("Invalid message role")
	}
	if at.IsZero() {
		at = time.Now()
	}
	return &entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      role,
		Content:   content,
		CreatedAt: at.UTC(),
	}, nil
}

func (s *chatStore) CreateChat(ctx context.Context, userId uuid.UUID, name string) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	chat := newChat(user.Id, name)
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Debug(chatStoreModule, "Chat created", map[string]interface{}{"chat_id": chat.Id, "user_id": userId})
	return chat, nil
}

func (s *chatStore) GetChatById(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.ChatRepository().FindById(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if chat == nil {
		return nil, apperror.NotFound("Chat not found")
	}
	return chat, nil
}

func (s *chatStore) AppendMessage(ctx context.Context, chat *entity.Chat, role entity.MessageRole, content string, at time.Time) (*entity.Message, error) {
	msg, err := newMessage(chat, role, content, at)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, apperror.Internal(err)
	}
	return msg, nil
}

func (s *chatStore) ListMessages(ctx context.Context, chatId uuid.UUID) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAllByChat(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, nil
}

func (s *chatStore) ListChatsForUser(ctx context.Context, userId uuid.UUID) ([]*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chats, err := uow.ChatRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if chats == nil {
		chats = []*entity.Chat{}
	}
	return chats, nil
}

func (s *chatStore) RecordExchange(ctx context.Context, ex *Exchange) (*entity.Chat, error) {
	chat := ex.Chat
	created := chat == nil
	if created {
		chat = newChat(ex.UserId, ex.ChatName)
	}

	userMsg, err := newMessage(chat, entity.MessageRoleUser, ex.UserText, ex.UserAt)
	if err != nil {
		return nil, err
	}
	replyMsg, err := newMessage(chat, entity.MessageRoleAssistant, ex.Reply, ex.ReplyAt)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if created {
		if err := uow.ChatRepository().Create(ctx, chat); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.MessageRepository().Create(ctx, replyMsg); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Debug(chatStoreModule, "Exchange recorded", map[string]interface{}{
		"chat_id":      chat.Id,
		"chat_created": created,
	})
	return chat, nil
}
