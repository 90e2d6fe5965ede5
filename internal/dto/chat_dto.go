package dto

import (
	"time"

	"github.com/google/uuid"
)

type AskRequest struct {
	UserId  uuid.UUID  `json:"user_id" validate:"required"`
	ChatId  *uuid.UUID `json:"chat_id"`
	Message string     `json:"message" validate:"required,max=4000"`
}

type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AskResponse struct {
	UserId   uuid.UUID         `json:"user_id"`
	Email    string            `json:"email"`
	ChatId   uuid.UUID         `json:"chat_id"`
	ChatName string            `json:"chat_name"`
	Message  string            `json:"message"`
	Response string            `json:"response"`
	Messages []MessageResponse `json:"messages"`
}

type CreateChatRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Name   string    `json:"name" validate:"omitempty,max=255"`
}

type ChatSummaryResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
