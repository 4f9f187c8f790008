package domain

import (
	"context"
	"time"
)

type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}

const (
	TopicInvestmentEvents = "investment-events"
	TopicEscrowEvents     = "escrow-events"
	TopicOrderEvents      = "order-events"
)

// Event is a domain fact published after its transaction commits.
type Event struct {
	Topic      string         `json:"-"`
	Key        string         `json:"key"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event Event) error
}
