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

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) CreateEscrow(ctx context.Context, escrow *domain.EscrowContract) error {
	err := postgres.Conn(ctx, r.DB).Create(mappers.ToGORMEscrow(escrow)).Error
	if postgres.IsUniqueViolation(err) {
		return domain.ErrEscrowAlreadyExists
	}
	return err
}

func (r *DefaultEscrowRepository) GetEscrowByID(ctx context.Context, escrowID string) (*domain.EscrowContract, error) {
	return r.first(ctx, "id = ?", escrowID)
}

func (r *DefaultEscrowRepository) GetEscrowByInvestmentID(ctx context.Context, investmentID string) (*domain.EscrowContract, error) {
	return r.first(ctx, "investment_id = ?", investmentID)
}

func (r *DefaultEscrowRepository) GetEscrowByChainID(ctx context.Context, chainEscrowID uint64) (*domain.EscrowContract, error) {
	return r.first(ctx, "chain_escrow_id = ?", chainEscrowID)
}

func (r *DefaultEscrowRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.EscrowContract, error) {
	var model models.EscrowContractModel
	if err := postgres.Conn(ctx, r.DB).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&model), nil
}

func (r *DefaultEscrowRepository) ListProjectEscrows(ctx context.Context, projectID string) ([]*domain.EscrowContract, error) {
	var escrowModels []models.EscrowContractModel
	if err := postgres.Conn(ctx, r.DB).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&escrowModels).Error; err != nil {
		return nil, err
	}
	escrows := make([]*domain.EscrowContract, len(escrowModels))
	for i := range escrowModels {
		escrows[i] = mappers.ToDomainEscrow(&escrowModels[i])
	}
	return escrows, nil
}

// BindChainEscrow sets the on-chain id once; a row that is already bound is left untouched.
func (r *DefaultEscrowRepository) BindChainEscrow(ctx context.Context, escrowID string, chainEscrowID uint64) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.EscrowContractModel{}).
		Where("id = ? AND chain_escrow_id IS NULL", escrowID).
		Update("chain_escrow_id", chainEscrowID)
	if postgres.IsUniqueViolation(result.Error) {
		return domain.ErrEscrowAlreadyBound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetEscrowByID(ctx, escrowID); err != nil {
			return err
		}
		return domain.ErrEscrowAlreadyBound
	}
	return nil
}

func (r *DefaultEscrowRepository) UpdateEscrowStatus(ctx context.Context, escrowID string, status domain.EscrowStatus) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.EscrowContractModel{}).
		Where("id = ?", escrowID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEscrowNotFound
	}
	return nil
}
