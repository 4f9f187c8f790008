package background

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	publisher "github.com/LavaJover/trust-marketplace-service/internal/infrastructure/kafka"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	"github.com/go-co-op/gocron/v2"
)

const (
	chainSyncJobName = "chain-event-sync"
	chainSyncTimeout = time.Minute
)

type ChainSyncer interface {
	SyncChainEvents(ctx context.Context) (*escrowdto.SyncOutput, error)
}

// HealthReporter receives the outcome of each chain sync.
type HealthReporter func(component string, serving bool)

type Config struct {
	SyncInterval time.Duration
	// HealthComponent is the name reported to Health after every sync.
	HealthComponent string
	// AuditGroupID and AuditTopics configure the audit consumer when a
	// subscriber is supplied.
	AuditGroupID string
	AuditTopics  []string
}

type BackgroundTasks struct {
	syncer     ChainSyncer
	subscriber domain.SubscriberPort
	audit      domain.AuditLogger
	health     HealthReporter
	cfg        Config

	scheduler gocron.Scheduler
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewBackgroundTasks(syncer ChainSyncer, subscriber domain.SubscriberPort, audit domain.AuditLogger, health HealthReporter, cfg Config) (*BackgroundTasks, error) {
	if cfg.SyncInterval <= 0 {
		return nil, fmt.Errorf("sync interval must be positive, got %s", cfg.SyncInterval)
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &BackgroundTasks{
		syncer:     syncer,
		subscriber: subscriber,
		audit:      audit,
		health:     health,
		cfg:        cfg,
		scheduler:  scheduler,
	}, nil
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	ctx, bt.cancel = context.WithCancel(ctx)

	_, err := bt.scheduler.NewJob(
		gocron.DurationJob(bt.cfg.SyncInterval),
		gocron.NewTask(func() { bt.syncChain(ctx) }),
		gocron.WithName(chainSyncJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		bt.cancel()
		return fmt.Errorf("failed to register job %s: %w", chainSyncJobName, err)
	}
	bt.scheduler.Start()

	if bt.subscriber != nil && len(bt.cfg.AuditTopics) > 0 {
		consumer := publisher.NewAuditConsumer(bt.subscriber, bt.audit, bt.cfg.AuditGroupID, bt.cfg.AuditTopics...)
		bt.wg.Add(1)
		go func() {
			defer bt.wg.Done()
			if err := consumer.Run(ctx); err != nil {
				slog.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	slog.Info("background tasks started", "sync_interval", bt.cfg.SyncInterval)
	return nil
}

func (bt *BackgroundTasks) syncChain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, chainSyncTimeout)
	defer cancel()

	out, err := bt.syncer.SyncChainEvents(ctx)
	if bt.health != nil && bt.cfg.HealthComponent != "" {
		bt.health(bt.cfg.HealthComponent, err == nil)
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		attrs := []any{"error", err}
		if out != nil {
			attrs = append(attrs, "stuck_at_block", out.NextBlock)
		}
		slog.Error("chain sync failed", attrs...)
	}
}

// Stop waits for the running sync to finish and the consumer to drain.
func (bt *BackgroundTasks) Stop() {
	if bt.cancel != nil {
		bt.cancel()
	}
	if err := bt.scheduler.Shutdown(); err != nil {
		slog.Error("failed to shutdown scheduler", "error", err)
	}
	bt.wg.Wait()
	slog.Info("background tasks stopped")
}
