package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainUser(model *models.UserModel) *domain.User {
	return &domain.User{
		ID:            model.ID,
		Email:         model.Email,
		Role:          domain.UserRole(model.Role),
		TrustBand:     model.TrustBand,
		WalletAddress: model.WalletAddress,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMUser(user *domain.User) *models.UserModel {
	return &models.UserModel{
		ID:            user.ID,
		Email:         user.Email,
		Role:          string(user.Role),
		TrustBand:     user.TrustBand,
		WalletAddress: user.WalletAddress,
		CreatedAt:     user.CreatedAt,
	}
}
