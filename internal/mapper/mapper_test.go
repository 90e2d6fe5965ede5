package mapper

import (
	"testing"
	"time"

	"infoguru-be/internal/entity"
	"infoguru-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMapper_AvatarNullability(t *testing.T) {
	m := NewUserMapper()

	withoutAvatar := m.ToModel(&entity.User{Id: uuid.New(), Email: "a@b.co"})
	assert.Nil(t, withoutAvatar.Avatar)

	withAvatar := m.ToModel(&entity.User{Id: uuid.New(), Email: "a@b.co", Avatar: "https://cdn/x.png"})
	require.NotNil(t, withAvatar.Avatar)
	assert.Equal(t, "https://cdn/x.png", *withAvatar.Avatar)

	back := m.ToEntity(&model.User{Email: "a@b.co"})
	assert.Equal(t, "", back.Avatar)
	assert.Nil(t, m.ToEntity(nil))
}

func TestChatMapper_MessageRole(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()

	e := m.MessageToEntity(&model.Message{Id: uuid.New(), Role: "assistant", Content: "hi", CreatedAt: now})

	assert.Equal(t, entity.MessageRoleAssistant, e.Role)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, "assistant", m.MessageToModel(e).Role)
}
