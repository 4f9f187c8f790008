package models

import "time"

type PaymentModel struct {
	ID              string  `gorm:"primaryKey;type:uuid"`
	UserID          string  `gorm:"type:uuid;index;not null"`
	InvestmentID    *string `gorm:"type:uuid;index"`
	OrderID         *string `gorm:"type:uuid;index"`
	Amount          int64   `gorm:"not null"`
	Currency        string  `gorm:"size:3;not null"`
	Status          string  `gorm:"index;not null"`
	PaymentMethod   string
	TransactionID   string `gorm:"uniqueIndex;not null"`
	GatewayResponse string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PaymentModel) TableName() string { return "payments" }
