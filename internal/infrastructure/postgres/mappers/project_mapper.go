package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainProject(model *models.ProjectModel) *domain.Project {
	return &domain.Project{
		ID:            model.ID,
		FundraiserID:  model.FundraiserID,
		Title:         model.Title,
		MinInvestment: model.MinInvestment,
		MaxInvestment: model.MaxInvestment,
		CurrentAmount: model.CurrentAmount,
		Status:        domain.ProjectStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMProject(project *domain.Project) *models.ProjectModel {
	return &models.ProjectModel{
		ID:            project.ID,
		FundraiserID:  project.FundraiserID,
		Title:         project.Title,
		MinInvestment: project.MinInvestment,
		MaxInvestment: project.MaxInvestment,
		CurrentAmount: project.CurrentAmount,
		Status:        string(project.Status),
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}
