package cartdto

import "github.com/LavaJover/trust-marketplace-service/internal/domain"

type CartOutput struct {
	Cart   domain.Cart
	Totals domain.CartTotals
}

type CheckoutOutput struct {
	Order   domain.Order
	Payment domain.Payment
}
