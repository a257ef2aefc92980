package service

import (
	"context"
	"fmt"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes every curation lifecycle event into the audit log.
type consumerService struct {
	subscriber    events.Subscriber
	durablePrefix string
	logger        logger.ILogger
}

func NewConsumerService(subscriber events.Subscriber, durablePrefix string, log logger.ILogger) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber:    subscriber,
		durablePrefix: durablePrefix,
		logger:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	for _, eventType := range events.CurationTypes {
		durable := fmt.Sprintf("%s-%s", cs.durablePrefix, eventType)
		if err := cs.subscriber.Subscribe(events.Subject(eventType), durable, cs.handle); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}

func (cs *consumerService) handle(_ context.Context, event events.Event) error {
	details := map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}

	if event.EventType() == events.CurationFailed {
		cs.logger.Warn("EVENTS", "Curation session failed", details)
		return nil
	}
	cs.logger.Info("EVENTS", "Curation lifecycle event", details)
	return nil
}
