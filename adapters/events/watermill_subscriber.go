package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"

	"github.com/layer-3/catalog/core"
	"github.com/layer-3/catalog/ports"
)

// RevocationListener applies revocations published by peer instances to the local store
type RevocationListener struct {
	subscriber message.Subscriber
	store      ports.RevocationStore
	topic      string
	logger     *zap.Logger
}

// NewRevocationListener creates a listener on the revocation topic
func NewRevocationListener(subscriber message.Subscriber, store ports.RevocationStore, logger *zap.Logger) *RevocationListener {
	return &RevocationListener{
		subscriber: subscriber,
		store:      store,
		topic:      RevocationTopic,
		logger:     logger,
	}
}

// Run consumes events until ctx is cancelled or the subscriber is closed
func (l *RevocationListener) Run(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.topic, err)
	}

	for msg := range messages {
		l.handle(ctx, msg)
	}

	return nil
}

func (l *RevocationListener) handle(ctx context.Context, msg *message.Message) {
	var event RevocationEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		l.logger.Warn("dropping malformed revocation event", zap.String("message_uuid", msg.UUID), zap.Error(err))
		msg.Ack()
		return
	}

	if err := l.store.Revoke(ctx, event.TokenID, event.ExpiresAt); err != nil {
		if errors.Is(err, core.ErrInvalidArgument) {
			l.logger.Warn("dropping invalid revocation event", zap.String("message_uuid", msg.UUID), zap.Error(err))
			msg.Ack()
			return
		}
		l.logger.Error("failed to apply revocation event",
			zap.String("token_id", event.TokenID),
			zap.Error(err),
		)
		msg.Nack()
		return
	}

	l.logger.Debug("applied revocation event",
		zap.String("subject", event.Subject),
		zap.String("token_id", event.TokenID),
	)
	msg.Ack()
}
