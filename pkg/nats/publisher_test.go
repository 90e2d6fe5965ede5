package nats

import (
	"context"
	"os"
	"testing"
	"time"

	"infoguru-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "infoguru.events.USER_LOGIN", Subject(events.TypeUserLogin))
}

func TestPublisher_Integration(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}

	p, err := NewPublisher(url)
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.Publish(ctx, events.New(events.TypeChatCreated, map[string]interface{}{"chat_id": "test"}))
	assert.NoError(t, err)
}
