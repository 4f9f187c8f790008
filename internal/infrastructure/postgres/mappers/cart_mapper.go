package mappers

import (
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
)

func ToDomainCartItem(model *models.CartItemModel) domain.CartItem {
	return domain.CartItem{
		ProjectID: model.ProjectID,
		Quantity:  model.Quantity,
		UnitPrice: model.UnitPrice,
		AddedAt:   model.CreatedAt,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ProjectID: item.ProjectID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return &domain.Order{
		ID:            model.ID,
		Number:        model.Number,
		UserID:        model.UserID,
		Items:         items,
		Subtotal:      model.Subtotal,
		Tax:           model.Tax,
		Shipping:      model.Shipping,
		Total:         model.Total,
		Currency:      model.Currency,
		Status:        domain.OrderStatus(model.Status),
		PaymentMethod: model.PaymentMethod,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	items := make([]models.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = models.OrderItemModel{
			OrderID:   order.ID,
			ProjectID: item.ProjectID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return &models.OrderModel{
		ID:            order.ID,
		Number:        order.Number,
		UserID:        order.UserID,
		Items:         items,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		Currency:      order.Currency,
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
