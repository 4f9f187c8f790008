package setup

import (
	"fmt"

	cartusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/cart"
	escrowusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/escrow"
	governanceusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/governance"
	investmentusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/investment"
)

type UseCases struct {
	InvestmentUsecase investmentusecase.InvestmentUsecase
	EscrowUsecase     escrowusecase.EscrowUsecase
	CartUsecase       cartusecase.CartUsecase
	GovernanceUsecase governanceusecase.GovernanceUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	repos := deps.Repositories
	settlement := deps.Config.Settlement

	escrowUsecase := escrowusecase.NewDefaultEscrowUsecase(
		deps.TxManager,
		escrowusecase.Repositories{
			Users:       repos.Users,
			Escrows:     repos.Escrows,
			Investments: repos.Investments,
			Payments:    repos.Payments,
			Projects:    repos.Projects,
			Cursors:     repos.Cursors,
		},
		deps.ChainReader,
		deps.ChainEvents,
		deps.Publisher,
		deps.Metrics,
		deps.Config.Chain.StartBlock,
	)

	investmentUsecase, err := investmentusecase.NewDefaultInvestmentUsecase(
		deps.TxManager,
		investmentusecase.Repositories{
			Users:       repos.Users,
			Projects:    repos.Projects,
			Investments: repos.Investments,
			Payments:    repos.Payments,
			Escrows:     repos.Escrows,
		},
		escrowUsecase,
		deps.Publisher,
		deps.Metrics,
		investmentusecase.Settings{
			Currency:        settlement.Currency,
			TransactionCaps: settlement.TransactionCaps,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("investment usecase: %w", err)
	}

	pricing, err := cartusecase.NewPricing(settlement.VATRate, settlement.FreeShippingThreshold, settlement.ShippingFee)
	if err != nil {
		return nil, fmt.Errorf("cart pricing: %w", err)
	}
	cartUsecase, err := cartusecase.NewDefaultCartUsecase(
		deps.TxManager,
		cartusecase.Repositories{
			Carts:    repos.Carts,
			Orders:   repos.Orders,
			Payments: repos.Payments,
			Projects: repos.Projects,
		},
		deps.Locker,
		deps.Gateway,
		deps.Publisher,
		deps.Metrics,
		pricing,
		settlement.Currency,
	)
	if err != nil {
		return nil, fmt.Errorf("cart usecase: %w", err)
	}

	governanceUsecase := governanceusecase.NewDefaultGovernanceUsecase(
		deps.TxManager,
		governanceusecase.Repositories{
			Governance:  repos.Governance,
			Investments: repos.Investments,
			Projects:    repos.Projects,
		},
		deps.Metrics,
	)

	return &UseCases{
		InvestmentUsecase: investmentUsecase,
		EscrowUsecase:     escrowUsecase,
		CartUsecase:       cartUsecase,
		GovernanceUsecase: governanceUsecase,
	}, nil
}
