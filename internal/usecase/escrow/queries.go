package usecase

import (
	"context"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func (uc *DefaultEscrowUsecase) GetEscrowByID(ctx context.Context, escrowID string) (*domain.EscrowContract, error) {
	return uc.repos.Escrows.GetEscrowByID(ctx, escrowID)
}

func (uc *DefaultEscrowUsecase) GetEscrowByInvestment(ctx context.Context, investmentID string) (*domain.EscrowContract, error) {
	return uc.repos.Escrows.GetEscrowByInvestmentID(ctx, investmentID)
}

func (uc *DefaultEscrowUsecase) ListProjectEscrows(ctx context.Context, projectID string) ([]*domain.EscrowContract, error) {
	if _, err := uc.repos.Projects.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.repos.Escrows.ListProjectEscrows(ctx, projectID)
}
