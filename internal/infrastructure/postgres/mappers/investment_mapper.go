package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainInvestment(model *models.InvestmentModel) *domain.Investment {
	return &domain.Investment{
		ID:              model.ID,
		InvestorID:      model.InvestorID,
		ProjectID:       model.ProjectID,
		Amount:          model.Amount,
		Status:          domain.InvestmentStatus(model.Status),
		TransactionHash: model.TransactionHash,
		Notes:           model.Notes,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMInvestment(investment *domain.Investment) *models.InvestmentModel {
	return &models.InvestmentModel{
		ID:              investment.ID,
		InvestorID:      investment.InvestorID,
		ProjectID:       investment.ProjectID,
		Amount:          investment.Amount,
		Status:          string(investment.Status),
		TransactionHash: investment.TransactionHash,
		Notes:           investment.Notes,
		CreatedAt:       investment.CreatedAt,
		UpdatedAt:       investment.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:              model.ID,
		UserID:          model.UserID,
		InvestmentID:    model.InvestmentID,
		OrderID:         model.OrderID,
		Amount:          model.Amount,
		Currency:        model.Currency,
		Status:          domain.PaymentStatus(model.Status),
		PaymentMethod:   model.PaymentMethod,
		TransactionID:   model.TransactionID,
		GatewayResponse: model.GatewayResponse,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:              payment.ID,
		UserID:          payment.UserID,
		InvestmentID:    payment.InvestmentID,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
		Status:          string(payment.Status),
		PaymentMethod:   payment.PaymentMethod,
		TransactionID:   payment.TransactionID,
		GatewayResponse: payment.GatewayResponse,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
}
