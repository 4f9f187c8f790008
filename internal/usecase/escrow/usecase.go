package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
)

// DefaultCursorName identifies the escrow contract event stream in chain_cursors.
const DefaultCursorName = "escrow-contract"

type EscrowUsecase interface {
	CreateEscrowRecord(ctx context.Context, input *escrowdto.CreateEscrowRecordInput) (*domain.EscrowContract, error)
	BindOnChainEscrow(ctx context.Context, input *escrowdto.BindOnChainEscrowInput) (*domain.EscrowContract, error)
	ApplyChainEvent(ctx context.Context, event domain.ChainEvent) (*escrowdto.ApplyResult, error)
	SyncChainEvents(ctx context.Context) (*escrowdto.SyncOutput, error)

	GetEscrowByID(ctx context.Context, escrowID string) (*domain.EscrowContract, error)
	GetEscrowByInvestment(ctx context.Context, investmentID string) (*domain.EscrowContract, error)
	ListProjectEscrows(ctx context.Context, projectID string) ([]*domain.EscrowContract, error)
}

type Repositories struct {
	Users       domain.UserRepository
	Escrows     domain.EscrowRepository
	Investments domain.InvestmentRepository
	Payments    domain.PaymentRepository
	Projects    domain.ProjectRepository
	Cursors     domain.ChainCursorRepository
}

type DefaultEscrowUsecase struct {
	tx         domain.TxManager
	repos      Repositories
	chain      domain.ChainReader
	events     domain.ChainEventSource
	publisher  domain.EventPublisher
	metrics    *metrics.MarketplaceMetrics
	cursorName string
	startBlock uint64
	now        func() time.Time
}

func NewDefaultEscrowUsecase(
	tx domain.TxManager,
	repos Repositories,
	chain domain.ChainReader,
	events domain.ChainEventSource,
	publisher domain.EventPublisher,
	m *metrics.MarketplaceMetrics,
	startBlock uint64,
) *DefaultEscrowUsecase {
	return &DefaultEscrowUsecase{
		tx:         tx,
		repos:      repos,
		chain:      chain,
		events:     events,
		publisher:  publisher,
		metrics:    m,
		cursorName: DefaultCursorName,
		startBlock: startBlock,
		now:        time.Now,
	}
}
