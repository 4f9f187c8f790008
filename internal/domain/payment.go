package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID              string
	UserID          string
	InvestmentID    *string
	OrderID         *string
	Amount          int64
	Currency        string
	Status          PaymentStatus
	PaymentMethod   string
	TransactionID   string
	GatewayResponse string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByInvestmentID(ctx context.Context, investmentID string) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status PaymentStatus) error
}

type ChargeRequest struct {
	UserID        string
	Reference     string
	Amount        int64
	Currency      string
	PaymentMethod string
}

type ChargeResult struct {
	TransactionID string
	RawResponse   string
}

// PaymentGateway charges external payment instruments.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount int64) error
}
