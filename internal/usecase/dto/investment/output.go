package investmentdto

import "github.com/LavaJover/trust-marketplace-service/internal/domain"

// InvestmentOutput is an investment together with the rows created alongside it.
type InvestmentOutput struct {
	Investment      domain.Investment
	Payment         *domain.Payment
	Escrow          *domain.EscrowContract
	RequestedAmount int64
	Clamped         bool
}

type ListProjectsOutput struct {
	Projects []*domain.Project
	Total    int64
}
