package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRecordModel struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	Source     string    `gorm:"index"`
	EventType  string    `gorm:"index"`
	EntityKey  string    `gorm:"index"`
	Payload    string    `gorm:"type:jsonb"`
	OccurredAt time.Time `gorm:"index"`
	CreatedAt  time.Time
}

func (AuditRecordModel) TableName() string {
	return "audit_records"
}

type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) Record(ctx context.Context, record domain.AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Payload == "" {
		record.Payload = "{}"
	}
	return l.db.WithContext(ctx).Create(&AuditRecordModel{
		ID:         record.ID,
		Source:     record.Source,
		EventType:  record.EventType,
		EntityKey:  record.EntityKey,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt,
	}).Error
}

// SlogAuditLogger writes audit records to the structured log only.
type SlogAuditLogger struct{}

func (SlogAuditLogger) Record(ctx context.Context, record domain.AuditRecord) error {
	slog.InfoContext(ctx, "audit",
		"source", record.Source,
		"event_type", record.EventType,
		"entity", record.EntityKey,
		"occurred_at", record.OccurredAt,
	)
	return nil
}
