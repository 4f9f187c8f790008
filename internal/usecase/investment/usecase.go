package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
)

const defaultReleaseConditions = "Funds are released to the fundraiser when the project passes its next milestone gate"

type InvestmentUsecase interface {
	CreateInvestment(ctx context.Context, input *investmentdto.CreateInvestmentInput) (*investmentdto.InvestmentOutput, error)
	TransitionInvestment(ctx context.Context, input *investmentdto.TransitionInvestmentInput) (*investmentdto.InvestmentOutput, error)

	GetInvestment(ctx context.Context, investmentID string) (*investmentdto.InvestmentOutput, error)
	ListInvestorInvestments(ctx context.Context, investorID string) ([]*domain.Investment, error)
	ListProjectInvestments(ctx context.Context, projectID string) ([]*domain.Investment, error)

	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, input *investmentdto.ListProjectsInput) (*investmentdto.ListProjectsOutput, error)
}

// EscrowRecorder creates the off-chain escrow mirror for an escrowed investment.
type EscrowRecorder interface {
	CreateEscrowRecord(ctx context.Context, input *escrowdto.CreateEscrowRecordInput) (*domain.EscrowContract, error)
}

type Repositories struct {
	Users       domain.UserRepository
	Projects    domain.ProjectRepository
	Investments domain.InvestmentRepository
	Payments    domain.PaymentRepository
	Escrows     domain.EscrowRepository
}

type Settings struct {
	Currency string
	// TransactionCaps is keyed by external trust band (T0..T4).
	TransactionCaps   map[string]int64
	ReleaseConditions string
}

type DefaultInvestmentUsecase struct {
	tx        domain.TxManager
	repos     Repositories
	escrows   EscrowRecorder
	publisher domain.EventPublisher
	metrics   *metrics.MarketplaceMetrics
	settings  Settings
	ids       *identifiers
	now       func() time.Time
}

func NewDefaultInvestmentUsecase(
	tx domain.TxManager,
	repos Repositories,
	escrows EscrowRecorder,
	publisher domain.EventPublisher,
	m *metrics.MarketplaceMetrics,
	settings Settings,
) (*DefaultInvestmentUsecase, error) {
	ids, err := newIdentifiers()
	if err != nil {
		return nil, err
	}
	if settings.ReleaseConditions == "" {
		settings.ReleaseConditions = defaultReleaseConditions
	}
	return &DefaultInvestmentUsecase{
		tx:        tx,
		repos:     repos,
		escrows:   escrows,
		publisher: publisher,
		metrics:   m,
		settings:  settings,
		ids:       ids,
		now:       time.Now,
	}, nil
}
