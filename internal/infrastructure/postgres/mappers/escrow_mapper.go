package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrow(model *models.EscrowContractModel) *domain.EscrowContract {
	return &domain.EscrowContract{
		ID:                model.ID,
		InvestmentID:      model.InvestmentID,
		ProjectID:         model.ProjectID,
		ContractAddress:   model.ContractAddress,
		ChainEscrowID:     model.ChainEscrowID,
		Amount:            model.Amount,
		Status:            domain.EscrowStatus(model.Status),
		ReleaseConditions: model.ReleaseConditions,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMEscrow(escrow *domain.EscrowContract) *models.EscrowContractModel {
	return &models.EscrowContractModel{
		ID:                escrow.ID,
		InvestmentID:      escrow.InvestmentID,
		ProjectID:         escrow.ProjectID,
		ContractAddress:   escrow.ContractAddress,
		ChainEscrowID:     escrow.ChainEscrowID,
		Amount:            escrow.Amount,
		Status:            string(escrow.Status),
		ReleaseConditions: escrow.ReleaseConditions,
		CreatedAt:         escrow.CreatedAt,
		UpdatedAt:         escrow.UpdatedAt,
	}
}
