package service

import (
	"context"
	"errors"
	"testing"

	"infoguru-be/internal/dto"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"
	"infoguru-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	db        *memoryDB
	publisher *recordingPublisher
	service   IAuthService
}

func newAuthFixture() *authFixture {
	db := newMemoryDB()
	pub := &recordingPublisher{}
	return &authFixture{
		db:        db,
		publisher: pub,
		service:   NewAuthService(newTestDirectory(db), newTestTokens(), pub, logger.NewNopLogger()),
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture()

	res, err := f.service.Signup(context.Background(), &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", res.Email)
	assert.Nil(t, res.Avatar)
	require.Len(t, f.db.users, 1)
	for _, u := range f.db.users {
		assert.NotEqual(t, "Valid#Pass1", u.PasswordHash)
	}
	assert.Equal(t, []string{events.TypeUserSignedUp}, f.publisher.types())
}

func TestSignup_ExistingEmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	_, err = f.service.Signup(ctx, &dto.SignupRequest{Email: "A@B.COM", Password: "Valid#Pass1"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "User already exists", err.Error())
	assert.Len(t, f.db.users, 1)
}

func TestSignup_PublishFailureIsNotReturned(t *testing.T) {
	f := newAuthFixture()
	f.publisher.err = errors.New("bus closed")

	_, err := f.service.Signup(context.Background(), &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	res, err := f.service.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", res.Email)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	_, err = f.service.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "Wrong#Pass1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)
	login, err := f.service.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.service.Logout(ctx, login.Id, login.RefreshToken))

	_, err = f.service.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	err = f.service.Logout(ctx, login.Id, login.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestLogout_MissingOrInvalidToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	err := f.service.Logout(ctx, uuid.New(), "")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, "Refresh token is missing", err.Error())

	err = f.service.Logout(ctx, uuid.New(), "not-a-jwt")
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestLogout_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)
	login, err := f.service.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	err = f.service.Logout(ctx, login.Id, login.AccessToken)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestLogout_TokenOfAnotherUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)
	login, err := f.service.Login(ctx, &dto.LoginRequest{Email: "a@b.com", Password: "Valid#Pass1"})
	require.NoError(t, err)

	err = f.service.Logout(ctx, uuid.New(), login.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, "Token does not belong to the current user", err.Error())

	// The owner can still use and revoke it.
	_, err = f.service.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, login.Id, login.RefreshToken))
}
