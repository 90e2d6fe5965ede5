package service

import (
	"context"

	"infoguru-be/internal/pkg/logger"
	"infoguru-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const activityModule = "activity"

type ActivitySource interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

type IActivityService interface {
	Consume(ctx context.Context) error
}

// activityService writes every domain event from the local bus to the activity log.
type activityService struct {
	source ActivitySource
	logger logger.ILogger
}

func NewActivityService(source ActivitySource, log logger.ILogger) IActivityService {
	return &activityService{source: source, logger: log}
}

// Consume subscribes and returns; messages are handled on a background
// goroutine until ctx is cancelled.
func (s *activityService) Consume(ctx context.Context) error {
	messages, err := s.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()
	return nil
}

func (s *activityService) processMessage(msg *message.Message) {
	// Undecodable payloads are acked so they are not redelivered forever.
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		s.logger.Warn(activityModule, "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	s.logger.Info(activityModule, event.EventType(), map[string]interface{}{
		"occurred_at": event.Timestamp(),
		"payload":     event.Payload(),
	})
}
