package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainProposal(model *models.ProposalModel) *domain.Proposal {
	return &domain.Proposal{
		ID:        model.ID,
		ProjectID: model.ProjectID,
		Title:     model.Title,
		Status:    domain.ProposalStatus(model.Status),
		ClosesAt:  model.ClosesAt,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMProposal(proposal *domain.Proposal) *models.ProposalModel {
	return &models.ProposalModel{
		ID:        proposal.ID,
		ProjectID: proposal.ProjectID,
		Title:     proposal.Title,
		Status:    string(proposal.Status),
		ClosesAt:  proposal.ClosesAt,
		CreatedAt: proposal.CreatedAt,
	}
}

func ToDomainVote(model *models.VoteModel) *domain.Vote {
	return &domain.Vote{
		ProposalID: model.ProposalID,
		VoterID:    model.VoterID,
		Choice:     domain.VoteChoice(model.Choice),
		Weight:     model.Weight,
		CastAt:     model.CastAt,
	}
}

func ToGORMVote(vote *domain.Vote) *models.VoteModel {
	return &models.VoteModel{
		ProposalID: vote.ProposalID,
		VoterID:    vote.VoterID,
		Choice:     string(vote.Choice),
		Weight:     vote.Weight,
		CastAt:     vote.CastAt,
	}
}
