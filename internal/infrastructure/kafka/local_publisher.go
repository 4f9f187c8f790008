package publisher

import (
	"context"
	"encoding/json"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

// LocalEventPublisher writes events straight into the audit trail. It stands
// in for the broker when Kafka is disabled.
type LocalEventPublisher struct {
	audit domain.AuditLogger
}

func NewLocalEventPublisher(audit domain.AuditLogger) *LocalEventPublisher {
	return &LocalEventPublisher{audit: audit}
}

func (p *LocalEventPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	return p.audit.Record(ctx, domain.AuditRecord{
		Source:     event.Topic,
		EventType:  event.Type,
		EntityKey:  event.Key,
		Payload:    string(payload),
		OccurredAt: event.OccurredAt,
	})
}
