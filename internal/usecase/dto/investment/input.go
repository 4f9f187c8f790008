package investmentdto

import "github.com/LavaJover/trust-marketplace-service/internal/domain"

type CreateInvestmentInput struct {
	InvestorID    string
	ProjectID     string
	Amount        int64
	Status        domain.InvestmentStatus
	Notes         string
	PaymentMethod string
}

type TransitionInvestmentInput struct {
	InvestmentID  string
	TargetStatus  domain.InvestmentStatus
	PaymentMethod string
}

type ListProjectsInput struct {
	Statuses []domain.ProjectStatus
	Page     int
	Limit    int
}
