package usecase

import (
	"context"
	"log/slog"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	cartdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/cart"
	"github.com/google/uuid"
)

// Checkout turns the cart into a paid order. The order is stored PENDING,
// the gateway is charged outside any transaction, and a second transaction
// records the payment and marks the order PAID. On failure the order is
// cancelled and a successful charge is refunded.
func (uc *DefaultCartUsecase) Checkout(ctx context.Context, input *cartdto.CheckoutInput) (*cartdto.CheckoutOutput, error) {
	method := input.PaymentMethod
	if method == "" {
		method = "card"
	}

	out := &cartdto.CheckoutOutput{}
	var order *domain.Order
	var charge *domain.ChargeResult
	err := uc.withCartLock(ctx, input.UserID, func() error {
		var err error
		order, err = uc.placeOrder(ctx, input.UserID, method)
		if err != nil {
			return err
		}

		result, err := uc.gateway.Charge(ctx, domain.ChargeRequest{
			UserID:        input.UserID,
			Reference:     order.Number,
			Amount:        order.Total,
			Currency:      order.Currency,
			PaymentMethod: method,
		})
		if err != nil {
			return err
		}
		charge = result

		return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			now := uc.now()
			orderID := order.ID
			payment := domain.Payment{
				ID:              uuid.NewString(),
				UserID:          input.UserID,
				OrderID:         &orderID,
				Amount:          order.Total,
				Currency:        order.Currency,
				Status:          domain.PaymentCompleted,
				PaymentMethod:   method,
				TransactionID:   charge.TransactionID,
				GatewayResponse: charge.RawResponse,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := uc.repos.Payments.CreatePayment(ctx, &payment); err != nil {
				return err
			}
			if err := uc.repos.Orders.UpdateOrderStatus(ctx, order.ID, domain.OrderPaid); err != nil {
				return err
			}
			if err := uc.repos.Carts.ClearCart(ctx, input.UserID); err != nil {
				return err
			}

			out.Order = *order
			out.Order.Status = domain.OrderPaid
			out.Order.UpdatedAt = now
			out.Payment = payment
			return nil
		})
	})
	if err != nil {
		if charge != nil {
			uc.compensate(ctx, charge, order.Total, input.UserID)
		}
		if order != nil {
			uc.cancelOrder(ctx, order.ID)
		}
		result := "failed"
		if domain.Kind(err) == domain.KindExternal {
			result = "payment_failed"
		}
		uc.metrics.RecordCheckout(result, uc.currency, 0)
		return nil, err
	}

	paid := out.Order
	slog.InfoContext(ctx, "order paid", "order_id", paid.ID, "number", paid.Number, "user_id", paid.UserID, "total", paid.Total)
	uc.metrics.RecordCheckout("paid", paid.Currency, paid.Total)
	err = uc.publisher.PublishEvent(ctx, domain.Event{
		Topic:      domain.TopicOrderEvents,
		Key:        paid.ID,
		Type:       "order.paid",
		OccurredAt: uc.now(),
		Payload: map[string]any{
			"order_id":       paid.ID,
			"order_number":   paid.Number,
			"user_id":        paid.UserID,
			"total":          paid.Total,
			"currency":       paid.Currency,
			"transaction_id": out.Payment.TransactionID,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish order event", "order_id", paid.ID, "error", err)
	}
	return out, nil
}

// placeOrder snapshots the cart into a PENDING order.
func (uc *DefaultCartUsecase) placeOrder(ctx context.Context, userID, method string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := uc.repos.Carts.GetCart(ctx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return domain.ErrEmptyCart
		}
		totals, err := ComputeTotals(cart.Items, uc.pricing)
		if err != nil {
			return err
		}

		now := uc.now()
		o := &domain.Order{
			ID:            uuid.NewString(),
			Number:        "ORD-" + uc.orderNumber(),
			UserID:        userID,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Shipping:      totals.Shipping,
			Total:         totals.Total,
			Currency:      uc.currency,
			Status:        domain.OrderPending,
			PaymentMethod: method,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, item := range cart.Items {
			o.Items = append(o.Items, domain.OrderItem{
				ProjectID: item.ProjectID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		if err := uc.repos.Orders.CreateOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *DefaultCartUsecase) cancelOrder(ctx context.Context, orderID string) {
	ctx = context.WithoutCancel(ctx)
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return uc.repos.Orders.UpdateOrderStatus(ctx, orderID, domain.OrderCancelled)
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to cancel order after checkout failure", "order_id", orderID, "error", err)
	}
}

func (uc *DefaultCartUsecase) compensate(ctx context.Context, charge *domain.ChargeResult, amount int64, userID string) {
	ctx = context.WithoutCancel(ctx)
	if err := uc.gateway.Refund(ctx, charge.TransactionID, amount); err != nil {
		slog.ErrorContext(ctx, "failed to refund charge after checkout failure",
			"transaction_id", charge.TransactionID, "user_id", userID, "amount", amount, "error", err)
		return
	}
	slog.WarnContext(ctx, "checkout rolled back, charge refunded", "transaction_id", charge.TransactionID, "amount", amount)
}

func (uc *DefaultCartUsecase) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := uc.repos.Orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// other users' orders are reported as missing
	if userID != "" && order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (uc *DefaultCartUsecase) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Orders.ListUserOrders(ctx, userID)
}
