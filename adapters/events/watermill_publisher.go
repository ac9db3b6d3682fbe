package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// RevocationTopic carries token revocations between instances
const RevocationTopic = "catalog.revocations"

// RevocationEvent represents a revoked token
type RevocationEvent struct {
	Subject   string    `json:"subject"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     RevocationTopic,
	}
}

// PublishRevocation publishes a revocation event
func (p *WatermillPublisher) PublishRevocation(ctx context.Context, subject string, tokenID string, expiresAt time.Time) error {
	event := RevocationEvent{
		Subject:   subject,
		TokenID:   tokenID,
		ExpiresAt: expiresAt.UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops every event, used when running a single instance
type NopPublisher struct{}

// PublishRevocation discards the event
func (NopPublisher) PublishRevocation(context.Context, string, string, time.Time) error {
	return nil
}
