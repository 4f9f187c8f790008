package domain

import (
	"context"
	"time"
)

type CartItem struct {
	ProjectID string
	Quantity  int64
	UnitPrice int64
	AddedAt   time.Time
}

type Cart struct {
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

type CartTotals struct {
	Subtotal int64
	Tax      int64
	Shipping int64
	Total    int64
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

type OrderItem struct {
	ProjectID string
	Quantity  int64
	UnitPrice int64
}

type Order struct {
	ID            string
	Number        string
	UserID        string
	Items         []OrderItem
	Subtotal      int64
	Tax           int64
	Shipping      int64
	Total         int64
	Currency      string
	Status        OrderStatus
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*Cart, error)
	UpsertItem(ctx context.Context, userID string, item CartItem) error
	DeleteItem(ctx context.Context, userID, projectID string) error
	ClearCart(ctx context.Context, userID string) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]*Order, error)
}

// CartLocker serializes cart mutations per user. The returned func releases the lock.
type CartLocker interface {
	Lock(ctx context.Context, userID string) (func(), error)
}
