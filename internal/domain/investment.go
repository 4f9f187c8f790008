package domain

import (
	"context"
	"time"
)

type InvestmentStatus string

const (
	InvestmentPending   InvestmentStatus = "PENDING"
	InvestmentApproved  InvestmentStatus = "APPROVED"
	InvestmentEscrowed  InvestmentStatus = "ESCROWED"
	InvestmentReleased  InvestmentStatus = "RELEASED"
	InvestmentRefunded  InvestmentStatus = "REFUNDED"
	InvestmentCancelled InvestmentStatus = "CANCELLED"
)

// rank orders the forward lattice; terminal side states have no rank.
var investmentRank = map[InvestmentStatus]int{
	InvestmentPending:  0,
	InvestmentApproved: 1,
	InvestmentEscrowed: 2,
	InvestmentReleased: 3,
}

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentPending, InvestmentApproved, InvestmentEscrowed,
		InvestmentReleased, InvestmentRefunded, InvestmentCancelled:
		return true
	}
	return false
}

func (s InvestmentStatus) Terminal() bool {
	return s == InvestmentReleased || s == InvestmentRefunded || s == InvestmentCancelled
}

// RequiresPayment reports whether an investment in this status carries a payment.
func (s InvestmentStatus) RequiresPayment() bool {
	return s == InvestmentApproved || s == InvestmentEscrowed
}

// CanTransitionTo reports whether the lattice allows moving from s to next.
// Forward moves may skip steps; REFUNDED and CANCELLED are reachable only
// from non-terminal states, and nothing leaves a terminal state.
func (s InvestmentStatus) CanTransitionTo(next InvestmentStatus) bool {
	if s.Terminal() || !next.Valid() || s == next {
		return false
	}
	switch next {
	case InvestmentCancelled:
		return s == InvestmentPending || s == InvestmentApproved
	case InvestmentRefunded:
		return s == InvestmentEscrowed
	}
	return investmentRank[next] > investmentRank[s]
}

// Counted reports whether the investment still contributes to project funding.
func (s InvestmentStatus) Counted() bool {
	return s != InvestmentRefunded && s != InvestmentCancelled
}

type Investment struct {
	ID              string
	InvestorID      string
	ProjectID       string
	Amount          int64
	Status          InvestmentStatus
	TransactionHash string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type InvestmentRepository interface {
	CreateInvestment(ctx context.Context, investment *Investment) error
	GetInvestmentByID(ctx context.Context, investmentID string) (*Investment, error)
	FindInvestment(ctx context.Context, investorID, projectID string) (*Investment, error)
	UpdateInvestmentStatus(ctx context.Context, investmentID string, status InvestmentStatus) error
	ListInvestorInvestments(ctx context.Context, investorID string) ([]*Investment, error)
	ListProjectInvestments(ctx context.Context, projectID string) ([]*Investment, error)
}
