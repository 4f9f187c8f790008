package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	governancedto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/governance"
	"github.com/google/uuid"
)

type GovernanceUsecase interface {
	CreateProposal(ctx context.Context, input *governancedto.CreateProposalInput) (*domain.Proposal, error)
	CastVote(ctx context.Context, input *governancedto.CastVoteInput) (*domain.Vote, error)
	GetTally(ctx context.Context, proposalID string) (*domain.Tally, error)
}

type Repositories struct {
	Governance  domain.GovernanceRepository
	Investments domain.InvestmentRepository
	Projects    domain.ProjectRepository
}

type DefaultGovernanceUsecase struct {
	tx      domain.TxManager
	repos   Repositories
	metrics *metrics.MarketplaceMetrics
	now     func() time.Time
}

func NewDefaultGovernanceUsecase(tx domain.TxManager, repos Repositories, m *metrics.MarketplaceMetrics) *DefaultGovernanceUsecase {
	return &DefaultGovernanceUsecase{tx: tx, repos: repos, metrics: m, now: time.Now}
}

func (uc *DefaultGovernanceUsecase) CreateProposal(ctx context.Context, input *governancedto.CreateProposalInput) (*domain.Proposal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	now := uc.now()
	if !input.ClosesAt.After(now) {
		return nil, fmt.Errorf("%w: closes_at must be in the future", domain.ErrInvalidInput)
	}
	if _, err := uc.repos.Projects.GetProjectByID(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	proposal := &domain.Proposal{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		Title:     title,
		Status:    domain.ProposalOpen,
		ClosesAt:  input.ClosesAt.UTC(),
		CreatedAt: now,
	}
	if err := uc.repos.Governance.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "proposal created", "proposal_id", proposal.ID, "project_id", proposal.ProjectID)
	return proposal, nil
}

// CastVote records one vote per investor, weighted by the investor's counted
// investment in the proposal's project.
func (uc *DefaultGovernanceUsecase) CastVote(ctx context.Context, input *governancedto.CastVoteInput) (*domain.Vote, error) {
	choice := domain.VoteChoice(strings.ToUpper(strings.TrimSpace(string(input.Choice))))
	if !choice.Valid() {
		return nil, fmt.Errorf("%w: choice %q", domain.ErrInvalidInput, input.Choice)
	}

	var vote *domain.Vote
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		proposal, err := uc.repos.Governance.GetProposalByID(ctx, input.ProposalID)
		if err != nil {
			return err
		}
		now := uc.now()
		if proposal.Status != domain.ProposalOpen || !now.Before(proposal.ClosesAt) {
			return domain.ErrProposalClosed
		}

		investment, err := uc.repos.Investments.FindInvestment(ctx, input.VoterID, proposal.ProjectID)
		if err != nil {
			if errors.Is(err, domain.ErrInvestmentNotFound) {
				return domain.ErrNotAnInvestor
			}
			return err
		}
		if !investment.Status.Counted() {
			return domain.ErrNotAnInvestor
		}

		vote = &domain.Vote{
			ProposalID: proposal.ID,
			VoterID:    input.VoterID,
			Choice:     choice,
			Weight:     investment.Amount,
			CastAt:     now,
		}
		return uc.repos.Governance.CreateVote(ctx, vote)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordVote(string(choice))
	return vote, nil
}

func (uc *DefaultGovernanceUsecase) GetTally(ctx context.Context, proposalID string) (*domain.Tally, error) {
	if _, err := uc.repos.Governance.GetProposalByID(ctx, proposalID); err != nil {
		return nil, err
	}
	votes, err := uc.repos.Governance.ListVotes(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	tally := &domain.Tally{ProposalID: proposalID, Voters: len(votes)}
	for _, v := range votes {
		var sum *int64
		switch v.Choice {
		case domain.VoteFor:
			sum = &tally.For
		case domain.VoteAgainst:
			sum = &tally.Against
		default:
			sum = &tally.Abstain
		}
		if *sum, err = domain.AddAmounts(*sum, v.Weight); err != nil {
			return nil, err
		}
	}
	return tally, nil
}
