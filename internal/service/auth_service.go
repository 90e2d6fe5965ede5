package service

import (
	"context"
	"errors"
	"strings"

	"infoguru-be/internal/dto"
	"infoguru-be/internal/entity"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/pkg/events"
	"infoguru-be/pkg/token"

	"github.com/google/uuid"
)

const authModule = "auth"

// Credentials issues and revokes the token pair handed out at login.
type Credentials interface {
	IssuePair(userID string) (*token.Pair, error)
	ParseRefresh(ctx context.Context, refreshToken string) (*token.Claims, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	// Logout revokes a refresh token issued to userId.
	Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error
}

type authService struct {
	users     IUserDirectory
	tokens    Credentials
	publisher events.Publisher
	logger    logger.ILogger
}

func NewAuthService(users IUserDirectory, tokens Credentials, publisher events.Publisher, log logger.ILogger) IAuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authService{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		logger:    log,
	}
}

func ToUserResponse(u *entity.User) dto.UserResponse {
	var avatar *string
	if u.Avatar != "" {
		a := u.Avatar
		avatar = &a
	}
	return dto.UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		Username:  u.Username,
		Avatar:    avatar,
		CreatedAt: u.CreatedAt,
	}
}

// Signup pre-checks the email, but the unique index decides races: a duplicate
// insert also comes back from CreateUser as a Conflict.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("User already exists")
	}

	user, err := s.users.CreateUser(ctx, req.Email, req.Password, "", "")
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeUserSignedUp, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	}))

	res := ToUserResponse(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if apperror.Is(err, apperror.KindUnauthorized) {
			s.logger.Warn(authModule, "Failed login attempt", map[string]interface{}{"email": normalizeEmail(req.Email)})
		}
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user.Id.String())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
	}))

	return &dto.LoginResponse{
		UserResponse: ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	access, err := s.tokens.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, tokenError(err, apperror.KindUnauthorized)
	}
	return &dto.RefreshTokenResponse{AccessToken: access}, nil
}

func (s *authService) Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return apperror.BadRequest("Refresh token is missing")
	}

	claims, err := s.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return tokenError(err, apperror.KindBadRequest)
	}
	if claims.UserID != userId.String() {
		s.logger.Warn(authModule, "Logout with a token of another user", map[string]interface{}{"user_id": userId})
		return apperror.BadRequest("Token does not belong to the current user")
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return tokenError(err, apperror.KindBadRequest)
	}

	s.publish(ctx, events.New(events.TypeUserLogout, map[string]interface{}{
		"user_id": userId.String(),
	}))
	return nil
}

// tokenError maps credential failures the caller caused to kind and leaves
// everything else (a blacklist store outage) as internal.
func tokenError(err error, kind apperror.Kind) error {
	switch {
	case errors.Is(err, token.ErrTokenRevoked):
		return apperror.Wrap(kind, "Token is blacklisted", err)
	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrWrongTokenType):
		return apperror.Wrap(kind, "Token is invalid or expired", err)
	default:
		return apperror.Internal(err)
	}
}

func (s *authService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(authModule, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
