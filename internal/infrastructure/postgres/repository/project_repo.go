package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultProjectRepository struct {
	DB *gorm.DB
}

func NewDefaultProjectRepository(db *gorm.DB) *DefaultProjectRepository {
	return &DefaultProjectRepository{DB: db}
}

func (r *DefaultProjectRepository) CreateProject(ctx context.Context, project *domain.Project) error {
	return postgres.Conn(ctx, r.DB).Create(mappers.ToGORMProject(project)).Error
}

func (r *DefaultProjectRepository) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.getProject(postgres.Conn(ctx, r.DB), projectID)
}

func (r *DefaultProjectRepository) GetProjectForUpdate(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.getProject(postgres.Conn(ctx, r.DB).Clauses(clause.Locking{Strength: "UPDATE"}), projectID)
}

func (r *DefaultProjectRepository) getProject(db *gorm.DB, projectID string) (*domain.Project, error) {
	var model models.ProjectModel
	if err := db.First(&model, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return mappers.ToDomainProject(&model), nil
}

// AddToCurrentAmount applies delta atomically; the amount never drops below zero.
func (r *DefaultProjectRepository) AddToCurrentAmount(ctx context.Context, projectID string, delta int64) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.ProjectModel{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"current_amount": gorm.Expr("GREATEST(current_amount + ?, 0)", delta),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return fmt.Errorf("update current amount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *DefaultProjectRepository) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error) {
	query := postgres.Conn(ctx, r.DB).Model(&models.ProjectModel{})
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Page * filter.Limit).Limit(filter.Limit)
	}

	var projectModels []models.ProjectModel
	if err := query.Order("created_at DESC").Find(&projectModels).Error; err != nil {
		return nil, 0, fmt.Errorf("find failed: %w", err)
	}

	projects := make([]*domain.Project, len(projectModels))
	for i := range projectModels {
		projects[i] = mappers.ToDomainProject(&projectModels[i])
	}
	return projects, total, nil
}
