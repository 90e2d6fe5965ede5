package service

import (
	"context"
	"strings"
	"time"

	"infoguru-be/internal/constant"
	"infoguru-be/internal/dto"
	"infoguru-be/internal/entity"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/pkg/assistant"
	"infoguru-be/pkg/events"
	"infoguru-be/pkg/llm"

	"github.com/google/uuid"
)

const chatModule = "chat"

type IChatService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	CreateChat(ctx context.Context, req *dto.CreateChatRequest) (*dto.ChatSummaryResponse, error)
	ListChatsForUser(ctx context.Context, userId uuid.UUID) ([]dto.ChatSummaryResponse, error)
	ListMessagesForChat(ctx context.Context, userId, chatId uuid.UUID) ([]dto.MessageResponse, error)
}

type chatService struct {
	users     IUserDirectory
	chats     IChatStore
	generator assistant.Generator
	publisher events.Publisher
	logger    logger.ILogger
	now       func() time.Time
}

func NewChatService(
	users IUserDirectory,
	chats IChatStore,
	generator assistant.Generator,
	publisher events.Publisher,
	log logger.ILogger,
) IChatService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &chatService{
		users:     users,
		chats:     chats,
		generator: generator,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// stamp returns a UTC timestamp at database precision that is strictly after prev.
func (s *chatService) stamp(prev time.Time) time.Time {
	t := s.now().UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !t.After(prev) {
		t = prev.Add(time.Microsecond)
	}
	return t
}

// resolveOwnedChat hides chats of other users behind the same NotFound a
// missing id gets.
func (s *chatService) resolveOwnedChat(ctx context.Context, userId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := s.chats.GetChatById(ctx, chatId)
	if err != nil {
		return nil, err
	}
	if !chat.OwnedBy(userId) {
		return nil, apperror.NotFound("Chat not found")
	}
	return chat, nil
}

func toLLMHistory(messages []*entity.Message) []llm.Message {
	history := make([]llm.Message, len(messages))
	for i, m := range messages {
		history[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}
	return history
}

func toMessageResponses(messages []*entity.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = dto.MessageResponse{Role: string(m.Role), Content: m.Content}
	}
	return out
}

func toChatSummary(c *entity.Chat) dto.ChatSummaryResponse {
	return dto.ChatSummaryResponse{Id: c.Id, Name: c.Name, CreatedAt: c.CreatedAt}
}

func (s *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperror.Validation(map[string]string{"message": "This field may not be blank."})
	}

	user, err := s.users.GetUserById(ctx, req.UserId)
	if err != nil {
		return nil, err
	}

	var (
		chat    *entity.Chat
		history []*entity.Message
	)
	if req.ChatId != nil && *req.ChatId != uuid.Nil {
		chat, err = s.resolveOwnedChat(ctx, user.Id, *req.ChatId)
		if err != nil {
			return nil, err
		}
		history, err = s.chats.ListMessages(ctx, chat.Id)
		if err != nil {
			return nil, err
		}
	}
	created := chat == nil

	var last time.Time
	if n := len(history); n > 0 {
		last = history[n-1].CreatedAt
	}
	userAt := s.stamp(last)

	reply, genErr := s.generator.Generate(ctx, toLLMHistory(history), message)
	if genErr != nil {
		s.logger.Error(chatModule, "Reply generation failed, storing fallback", map[string]interface{}{
			"user_id": user.Id,
			"error":   genErr,
		})
	}
	if reply == "" {
		reply = constant.FallbackReply
	}

	// Nothing is written until both messages can be stored together.
	chat, err = s.chats.RecordExchange(ctx, &Exchange{
		Chat:     chat,
		UserId:   user.Id,
		ChatName: constant.DefaultChatName,
		UserText: message,
		UserAt:   userAt,
		Reply:    reply,
		ReplyAt:  s.stamp(userAt),
	})
	if err != nil {
		return nil, err
	}

	messages, err := s.chats.ListMessages(ctx, chat.Id)
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, events.New(events.TypeChatCreated, map[string]interface{}{
			"user_id": user.Id.String(),
			"chat_id": chat.Id.String(),
		}))
	}
	s.publish(ctx, events.New(events.TypeChatExchange, map[string]interface{}{
		"user_id":       user.Id.String(),
		"chat_id":       chat.Id.String(),
		"message_count": len(messages),
		"fallback":      genErr != nil,
	}))

	return &dto.AskResponse{
		UserId:   user.Id,
		Email:    user.Email,
		ChatId:   chat.Id,
		ChatName: chat.Name,
		Message:  message,
		Response: reply,
		Messages: toMessageResponses(messages),
	}, nil
}

func (s *chatService) CreateChat(ctx context.Context, req *dto.CreateChatRequest) (*dto.ChatSummaryResponse, error) {
	chat, err := s.chats.CreateChat(ctx, req.UserId, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeChatCreated, map[string]interface{}{
		"user_id": req.UserId.String(),
		"chat_id": chat.Id.String(),
	}))

	res := toChatSummary(chat)
	return &res, nil
}

func (s *chatService) ListChatsForUser(ctx context.Context, userId uuid.UUID) ([]dto.ChatSummaryResponse, error) {
	if _, err := s.users.GetUserById(ctx, userId); err != nil {
		return nil, err
	}

	chats, err := s.chats.ListChatsForUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatSummaryResponse, len(chats))
	for i, c := range chats {
		out[i] = toChatSummary(c)
	}
	return out, nil
}

func (s *chatService) ListMessagesForChat(ctx context.Context, userId, chatId uuid.UUID) ([]dto.MessageResponse, error) {
	chat, err := s.resolveOwnedChat(ctx, userId, chatId)
	if err != nil {
		return nil, err
	}

	messages, err := s.chats.ListMessages(ctx, chat.Id)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func (s *chatService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(chatModule, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
