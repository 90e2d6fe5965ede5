package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LocalBus fans events out to in-process subscribers over a watermill channel.
// Events published while nobody is subscribed are dropped.
type LocalBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

var _ Publisher = &LocalBus{}

func NewLocalBus(topic string) *LocalBus {
	return &LocalBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false)),
		topic:  topic,
	}
}

func (b *LocalBus) Publish(_ context.Context, event Event) error {
	payload, err := Encode(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventType(), err)
	}
	return b.pubSub.Publish(b.topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, b.topic)
}

func (b *LocalBus) Close() error {
	return b.pubSub.Close()
}

// MultiPublisher forwards every event to each non-nil publisher and joins the failures.
type MultiPublisher struct {
	publishers []Publisher
}

var _ Publisher = &MultiPublisher{}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

func (m *MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
