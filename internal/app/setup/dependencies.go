package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/config"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/escrow"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/ethereum"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/gateway"
	publisher "github.com/LavaJover/trust-marketplace-service/internal/infrastructure/kafka"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/lock"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/logger"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/memory"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/migrate"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/notifier"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/repository"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const publisherDrainTimeout = 5 * time.Second

type Dependencies struct {
	Config       *config.MarketplaceConfig
	DB           *gorm.DB
	TxManager    domain.TxManager
	Repositories *Repositories
	Audit        domain.AuditLogger
	Publisher    *publisher.AsyncEventPublisher
	// Subscriber is nil unless Kafka is enabled.
	Subscriber  domain.SubscriberPort
	Locker      domain.CartLocker
	Gateway     domain.PaymentGateway
	ChainReader domain.ChainReader
	ChainEvents domain.ChainEventSource
	// Ledger is set only in simulated chain mode.
	Ledger   *escrow.Ledger
	Metrics  *metrics.MarketplaceMetrics
	Registry *prometheus.Registry

	closers []func() error
}

type Repositories struct {
	Users       domain.UserRepository
	Projects    domain.ProjectRepository
	Investments domain.InvestmentRepository
	Payments    domain.PaymentRepository
	Escrows     domain.EscrowRepository
	Cursors     domain.ChainCursorRepository
	Carts       domain.CartRepository
	Orders      domain.OrderRepository
	Governance  domain.GovernanceRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.MarketplaceConfig) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps := &Dependencies{
		Config:   cfg,
		Metrics:  metrics.NewMarketplaceMetrics(registry),
		Registry: registry,
	}

	if err := deps.initStorage(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := deps.initEvents(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("events: %w", err)
	}
	if err := deps.initLocker(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("cart locker: %w", err)
	}
	if err := deps.initGateway(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	if err := deps.initChain(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("chain: %w", err)
	}
	return deps, nil
}

func (d *Dependencies) initStorage() error {
	if d.Config.Storage.Driver == "memory" {
		store := memory.NewStore()
		d.TxManager = store
		d.Audit = store
		d.Repositories = &Repositories{
			Users:       store,
			Projects:    store,
			Investments: store,
			Payments:    store,
			Escrows:     store,
			Cursors:     store,
			Carts:       store,
			Orders:      store,
			Governance:  store,
		}
		slog.Warn("using in-memory storage; data is lost on restart")
		return nil
	}

	db, err := postgres.InitDB(d.Config.Storage)
	if err != nil {
		return err
	}
	d.DB = db
	d.closers = append(d.closers, func() error { return postgres.Close(db) })

	if path := d.Config.Storage.MigrationsPath; path != "" {
		if err := migrate.RunMigrations(db, path); err != nil {
			return err
		}
	}

	d.TxManager = postgres.NewTxManager(db, d.Config.Storage.TxRetries)
	d.Audit = logger.NewPGAuditLogger(db)
	d.Repositories = &Repositories{
		Users:       repository.NewDefaultUserRepository(db),
		Projects:    repository.NewDefaultProjectRepository(db),
		Investments: repository.NewDefaultInvestmentRepository(db),
		Payments:    repository.NewDefaultPaymentRepository(db),
		Escrows:     repository.NewDefaultEscrowRepository(db),
		Cursors:     repository.NewDefaultChainCursorRepository(db),
		Carts:       repository.NewDefaultCartRepository(db),
		Orders:      repository.NewDefaultOrderRepository(db),
		Governance:  repository.NewDefaultGovernanceRepository(db),
	}
	return nil
}

// initEvents picks Kafka when enabled, otherwise events go straight to the
// audit trail. The webhook, if any, gets a copy. Delivery runs on the async
// worker pool.
func (d *Dependencies) initEvents() error {
	var next domain.EventPublisher
	if d.Config.KafkaService.Enabled {
		if len(d.Config.KafkaService.Brokers) == 0 {
			return fmt.Errorf("kafka enabled without brokers")
		}
		kafkaPublisher := publisher.NewDefaultKafkaPublisher(d.Config.KafkaService.Brokers)
		d.closers = append(d.closers, kafkaPublisher.Close)
		d.Subscriber = publisher.NewDefaultKafkaSubscriber(d.Config.KafkaService.Brokers)
		next = kafkaPublisher
	} else {
		next = publisher.NewLocalEventPublisher(d.Audit)
	}
	if hook := d.Config.Webhook; hook.URL != "" {
		next = publisher.NewFanoutPublisher(next, notifier.NewWebhookNotifier(hook.URL, hook.Secret, hook.Timeout))
	}

	async, err := publisher.NewAsyncEventPublisher(next, d.Config.KafkaService.PublishWorkers, d.Metrics)
	if err != nil {
		return err
	}
	d.Publisher = async
	// drained before the broker writer closes
	d.closers = append(d.closers, func() error { return async.Close(publisherDrainTimeout) })
	return nil
}

func (d *Dependencies) initLocker() error {
	cfg := d.Config.Redis
	if cfg.Addr == "" {
		d.Locker = lock.NewLocalCartLocker(cfg.LockWait)
		return nil
	}
	client, err := lock.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	d.closers = append(d.closers, client.Close)
	d.Locker = lock.NewRedisCartLocker(client, cfg.LockTTL, cfg.LockWait)
	return nil
}

func (d *Dependencies) initGateway() error {
	cfg := d.Config.PaymentGateway
	if cfg.BaseURL != "" {
		d.Gateway = gateway.NewHTTPPaymentGateway(cfg.BaseURL, cfg.Timeout)
		return nil
	}
	simulated, err := gateway.NewSimulatedGateway()
	if err != nil {
		return err
	}
	slog.Warn("payment gateway url not set; using simulated gateway")
	d.Gateway = simulated
	return nil
}

func (d *Dependencies) initChain(ctx context.Context) error {
	cfg := d.Config.Chain
	if cfg.Mode == "ethereum" {
		client, ethClient, err := ethereum.Dial(ctx, cfg)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { ethClient.Close(); return nil })
		d.ChainReader = client
		d.ChainEvents = client
		return nil
	}

	var arbiter common.Address
	if common.IsHexAddress(cfg.Arbiter) {
		arbiter = common.HexToAddress(cfg.Arbiter)
	}
	ledger := escrow.NewLedger(escrow.Config{
		Arbiter:       arbiter,
		RefundTimeout: cfg.RefundTimeout,
	})
	d.Ledger = ledger
	d.ChainReader = ledger
	d.ChainEvents = ledger
	return nil
}

// Close releases resources in reverse order of acquisition.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Error("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}
