package domain

import (
	"context"
	"time"
)

type AuditRecord struct {
	ID         string
	Source     string
	EventType  string
	EntityKey  string
	Payload    string
	OccurredAt time.Time
}

type AuditLogger interface {
	Record(ctx context.Context, record AuditRecord) error
}
