package models

import "time"

type CartItemModel struct {
	UserID    string `gorm:"primaryKey;type:uuid"`
	ProjectID string `gorm:"primaryKey;type:uuid"`
	Quantity  int64  `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartItemModel) TableName() string { return "cart_items" }

type OrderModel struct {
	ID            string           `gorm:"primaryKey;type:uuid"`
	Number        string           `gorm:"uniqueIndex;not null"`
	UserID        string           `gorm:"type:uuid;index;not null"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE;"`
	Subtotal      int64
	Tax           int64
	Shipping      int64
	Total         int64
	Currency      string `gorm:"size:3"`
	Status        string `gorm:"index"`
	PaymentMethod string
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string { return "orders" }

type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"type:uuid;index;not null"`
	ProjectID string `gorm:"type:uuid;not null"`
	Quantity  int64
	UnitPrice int64
}

func (OrderItemModel) TableName() string { return "order_items" }
