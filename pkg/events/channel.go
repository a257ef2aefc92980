package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	metadataType       = "event_type"
	metadataOccurredAt = "occurred_at"
)

// ChannelBus is the in-process event bus used when NATS is unavailable.
// It satisfies both Publisher and Subscriber on top of a watermill gochannel.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
}

var (
	_ Publisher  = (*ChannelBus)(nil)
	_ Subscriber = (*ChannelBus)(nil)
)

func NewChannelBus(logger watermill.LoggerAdapter) *ChannelBus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &ChannelBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
	}
}

func (b *ChannelBus) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metadataType, event.EventType())
	msg.Metadata.Set(metadataOccurredAt, event.Timestamp().Format(time.RFC3339Nano))

	return b.pubSub.Publish(Subject(event.EventType()), msg)
}

// Subscribe consumes an exact subject. durableName is accepted for parity
// with the NATS subscriber; gochannel has no durable consumers.
func (b *ChannelBus) Subscribe(subject string, _ string, handler EventHandler) error {
	messages, err := b.pubSub.Subscribe(context.Background(), subject)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	go func() {
		for msg := range messages {
			var payload map[string]interface{}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				msg.Ack() // unparseable, never retried
				continue
			}

			occurredAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(metadataOccurredAt))
			if err != nil {
				occurredAt = time.Now()
			}

			event := BaseEvent{
				Type:       msg.Metadata.Get(metadataType),
				Data:       payload,
				OccurredAt: occurredAt,
			}
			if err := handler(msg.Context(), event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *ChannelBus) Close() error {
	return b.pubSub.Close()
}
