package service

import (
	"context"

	"infoguru-be/internal/dto"
)

type IUserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	users IUserDirectory
}

func NewUserService(users IUserDirectory) IUserService {
	return &userService{users: users}
}

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out, nil
}
