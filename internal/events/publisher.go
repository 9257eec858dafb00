// Package events publishes domain events for downstream billing and
// analytics consumers. Publishing is best-effort from the request path:
// the orchestrator logs and continues when a publish fails.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
)

// Publisher defines an interface for publishing domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// RepurposeEvent is emitted after a repurpose result has been persisted.
type RepurposeEvent struct {
	AccountID  string    `json:"account_id"`
	ContentID  string    `json:"content_id"`
	Tier       string    `json:"tier"`
	Platforms  []string  `json:"platforms"`
	Provider   string    `json:"provider"`
	Overage    bool      `json:"overage"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BillingEvent is emitted by the settlement worker for each overage ledger
// row handed to the payment collaborator.
type BillingEvent struct {
	EventID     string    `json:"event_id"`
	AccountID   string    `json:"account_id"`
	AmountCents int       `json:"amount_cents"`
	Count       int       `json:"count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Marshal encodes an event payload for publishing.
func Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return b, nil
}

// PubSubPublisher publishes events to Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a PubSubPublisher for the given GCP project.
func NewPublisher(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required for event publishing")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

// NopPublisher drops every event. Used when no GCP project is configured.
type NopPublisher struct{}

// Publish discards the payload.
func (NopPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	return "", nil
}
