package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCartRepository struct {
	DB *gorm.DB
}

func NewDefaultCartRepository(db *gorm.DB) *DefaultCartRepository {
	return &DefaultCartRepository{DB: db}
}

func (r *DefaultCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var itemModels []models.CartItemModel
	if err := postgres.Conn(ctx, r.DB).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	cart := &domain.Cart{UserID: userID, Items: make([]domain.CartItem, len(itemModels))}
	for i := range itemModels {
		cart.Items[i] = mappers.ToDomainCartItem(&itemModels[i])
		if itemModels[i].UpdatedAt.After(cart.UpdatedAt) {
			cart.UpdatedAt = itemModels[i].UpdatedAt
		}
	}
	return cart, nil
}

func (r *DefaultCartRepository) UpsertItem(ctx context.Context, userID string, item domain.CartItem) error {
	now := time.Now()
	model := &models.CartItemModel{
		UserID:    userID,
		ProjectID: item.ProjectID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return postgres.Conn(ctx, r.DB).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "updated_at"}),
		}).
		Create(model).Error
}

func (r *DefaultCartRepository) DeleteItem(ctx context.Context, userID, projectID string) error {
	result := postgres.Conn(ctx, r.DB).
		Delete(&models.CartItemModel{}, "user_id = ? AND project_id = ?", userID, projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *DefaultCartRepository) ClearCart(ctx context.Context, userID string) error {
	return postgres.Conn(ctx, r.DB).Delete(&models.CartItemModel{}, "user_id = ?", userID).Error
}

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return postgres.Conn(ctx, r.DB).Create(mappers.ToGORMOrder(order)).Error
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	result := postgres.Conn(ctx, r.DB).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var model models.OrderModel
	if err := postgres.Conn(ctx, r.DB).Preload("Items").First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	if err := postgres.Conn(ctx, r.DB).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}
