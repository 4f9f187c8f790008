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

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	return postgres.Conn(ctx, r.DB).Create(mappers.ToGORMPayment(payment)).Error
}

func (r *DefaultPaymentRepository) GetPaymentByInvestmentID(ctx context.Context, investmentID string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := postgres.Conn(ctx, r.DB).First(&model, "investment_id = ?", investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
