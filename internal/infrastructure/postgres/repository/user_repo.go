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

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{DB: db}
}

func (r *DefaultUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := postgres.Conn(ctx, r.DB).Create(mappers.ToGORMUser(user)).Error; err != nil {
		if postgres.IsUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *DefaultUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var model models.UserModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvestorNotFound
		}
		return nil, err
	}
	return mappers.ToDomainUser(&model), nil
}
