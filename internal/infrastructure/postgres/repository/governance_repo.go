package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultGovernanceRepository struct {
	DB *gorm.DB
}

func NewDefaultGovernanceRepository(db *gorm.DB) *DefaultGovernanceRepository {
	return &DefaultGovernanceRepository{DB: db}
}

func (r *DefaultGovernanceRepository) CreateProposal(ctx context.Context, proposal *domain.Proposal) error {
	return postgres.Conn(ctx, r.DB).Create(mappers.ToGORMProposal(proposal)).Error
}

func (r *DefaultGovernanceRepository) GetProposalByID(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	var model models.ProposalModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}
	return mappers.ToDomainProposal(&model), nil
}

func (r *DefaultGovernanceRepository) CreateVote(ctx context.Context, vote *domain.Vote) error {
	err := postgres.Conn(ctx, r.DB).Create(mappers.ToGORMVote(vote)).Error
	if postgres.IsUniqueViolation(err) {
		return domain.ErrAlreadyVoted
	}
	return err
}

func (r *DefaultGovernanceRepository) ListVotes(ctx context.Context, proposalID string) ([]*domain.Vote, error) {
	var voteModels []models.VoteModel
	if err := postgres.Conn(ctx, r.DB).
		Where("proposal_id = ?", proposalID).
		Order("cast_at ASC").
		Find(&voteModels).Error; err != nil {
		return nil, err
	}
	votes := make([]*domain.Vote, len(voteModels))
	for i := range voteModels {
		votes[i] = mappers.ToDomainVote(&voteModels[i])
	}
	return votes, nil
}
