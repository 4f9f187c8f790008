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

type DefaultInvestmentRepository struct {
	DB *gorm.DB
}

func NewDefaultInvestmentRepository(db *gorm.DB) *DefaultInvestmentRepository {
	return &DefaultInvestmentRepository{DB: db}
}

func (r *DefaultInvestmentRepository) CreateInvestment(ctx context.Context, investment *domain.Investment) error {
	err := postgres.Conn(ctx, r.DB).Create(mappers.ToGORMInvestment(investment)).Error
	if postgres.IsUniqueViolation(err) {
		return domain.ErrDuplicateInvestment
	}
	return err
}

func (r *DefaultInvestmentRepository) GetInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	return r.first(ctx, "id = ?", investmentID)
}

func (r *DefaultInvestmentRepository) FindInvestment(ctx context.Context, investorID, projectID string) (*domain.Investment, error) {
	return r.first(ctx, "investor_id = ? AND project_id = ?", investorID, projectID)
}

func (r *DefaultInvestmentRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Investment, error) {
	var model models.InvestmentModel
	if err := postgres.Conn(ctx, r.DB).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainInvestment(&model), nil
}

func (r *DefaultInvestmentRepository) UpdateInvestmentStatus(ctx context.Context, investmentID string, status domain.InvestmentStatus) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.InvestmentModel{}).
		Where("id = ?", investmentID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

func (r *DefaultInvestmentRepository) ListInvestorInvestments(ctx context.Context, investorID string) ([]*domain.Investment, error) {
	return r.list(ctx, "investor_id = ?", investorID)
}

func (r *DefaultInvestmentRepository) ListProjectInvestments(ctx context.Context, projectID string) ([]*domain.Investment, error) {
	return r.list(ctx, "project_id = ?", projectID)
}

func (r *DefaultInvestmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Investment, error) {
	var investmentModels []models.InvestmentModel
	if err := postgres.Conn(ctx, r.DB).
		Where(query, args...).
		Order("created_at DESC").
		Find(&investmentModels).Error; err != nil {
		return nil, err
	}
	investments := make([]*domain.Investment, len(investmentModels))
	for i := range investmentModels {
		investments[i] = mappers.ToDomainInvestment(&investmentModels[i])
	}
	return investments, nil
}
