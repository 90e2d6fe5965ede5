package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"infoguru-be/internal/entity"
	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatStore(t *testing.T) (*memoryDB, IChatStore, *entity.User) {
	t.Helper()
	db := newMemoryDB()
	user, err := newTestDirectory(db).CreateUser(context.Background(), "a@b.com", "Valid#Pass1", "", "")
	require.NoError(t, err)
	return db, NewChatStore(fakeFactory{db}, logger.NewNopLogger()), user
}

func TestAppendMessage(t *testing.T) {
	_, store, user := newTestChatStore(t)
	ctx := context.Background()

	chat, err := store.CreateChat(ctx, user.Id, "")
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := store.AppendMessage(ctx, chat, entity.MessageRoleUser, "hi", at)
	require.NoError(t, err)
	assert.Equal(t, at, msg.CreatedAt)

	_, err = store.AppendMessage(ctx, chat, entity.MessageRole("system"), "hi", at)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	_, err = store.AppendMessage(ctx, nil, entity.MessageRoleUser, "hi", at)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRecordExchange_CreatesChatAndBothMessages(t *testing.T) {
	db, store, user := newTestChatStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	chat, err := store.RecordExchange(ctx, &Exchange{
		UserId:   user.Id,
		UserText: "hi",
		UserAt:   at,
		Reply:    "hello",
		ReplyAt:  at.Add(time.Microsecond),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chat1", chat.Name)
	assert.Equal(t, user.Id, chat.UserId)

	msgs, err := store.ListMessages(ctx, chat.Id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.MessageRoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[1].Content)
	assert.Equal(t, 1, db.chatCount())
}

func TestRecordExchange_RollsBackOnFailure(t *testing.T) {
	db, store, user := newTestChatStore(t)
	db.failMessageOnCall = 2
	db.failMessageErr = errors.New("db down")

	_, err := store.RecordExchange(context.Background(), &Exchange{
		UserId:   user.Id,
		UserText: "hi",
		Reply:    "hello",
	})

	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.Equal(t, 0, db.messageCount())
	assert.Equal(t, 0, db.chatCount())
}
