package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultChainCursorRepository struct {
	DB *gorm.DB
}

func NewDefaultChainCursorRepository(db *gorm.DB) *DefaultChainCursorRepository {
	return &DefaultChainCursorRepository{DB: db}
}

// GetCursor returns 0 for a source that has never been synced.
func (r *DefaultChainCursorRepository) GetCursor(ctx context.Context, name string) (uint64, error) {
	var model models.ChainCursorModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.NextBlock, nil
}

func (r *DefaultChainCursorRepository) SaveCursor(ctx context.Context, name string, block uint64) error {
	return postgres.Conn(ctx, r.DB).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"next_block", "updated_at"}),
		}).
		Create(&models.ChainCursorModel{Name: name, NextBlock: block, UpdatedAt: time.Now()}).Error
}

func (r *DefaultChainCursorRepository) MarkEventProcessed(ctx context.Context, txHash string, logIndex uint) (bool, error) {
	result := postgres.Conn(ctx, r.DB).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedChainEventModel{TxHash: txHash, LogIndex: logIndex, ProcessedAt: time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
