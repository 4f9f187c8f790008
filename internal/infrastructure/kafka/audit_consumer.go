package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

// AuditConsumer persists every event from the given topics into the audit trail.
type AuditConsumer struct {
	subscriber domain.SubscriberPort
	audit      domain.AuditLogger
	groupID    string
	topics     []string
}

func NewAuditConsumer(subscriber domain.SubscriberPort, audit domain.AuditLogger, groupID string, topics ...string) *AuditConsumer {
	return &AuditConsumer{subscriber: subscriber, audit: audit, groupID: groupID, topics: topics}
}

// Run blocks until ctx is cancelled and every topic stream has closed.
func (c *AuditConsumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, topic := range c.topics {
		msgs, err := c.subscriber.Subscribe(ctx, topic, c.groupID)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			for msg := range msgs {
				c.handle(ctx, topic, msg)
			}
		}(topic)
	}
	wg.Wait()
	return nil
}

func (c *AuditConsumer) handle(ctx context.Context, topic string, msg domain.Message) {
	var event domain.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Warn("skipping undecodable event", "topic", topic, "error", err)
		return
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		payload = []byte("{}")
	}
	record := domain.AuditRecord{
		Source:     topic,
		EventType:  event.Type,
		EntityKey:  event.Key,
		Payload:    string(payload),
		OccurredAt: event.OccurredAt,
	}
	if err := c.audit.Record(ctx, record); err != nil {
		slog.Error("failed to store audit record", "topic", topic, "type", event.Type, "error", err)
	}
}
