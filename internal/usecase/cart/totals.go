package usecase

import (
	"math"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Pricing holds the checkout charges. Amounts are minor units.
type Pricing struct {
	VATRate               decimal.Decimal
	FreeShippingThreshold int64
	ShippingFee           int64
}

func NewPricing(vatRate string, freeShippingThreshold, shippingFee int64) (Pricing, error) {
	rate, err := decimal.NewFromString(vatRate)
	if err != nil || rate.IsNegative() {
		return Pricing{}, domain.ErrInvalidInput
	}
	return Pricing{
		VATRate:               rate,
		FreeShippingThreshold: freeShippingThreshold,
		ShippingFee:           shippingFee,
	}, nil
}

// ComputeTotals prices a cart. Tax is rounded half up to the minor unit.
func ComputeTotals(items []domain.CartItem, p Pricing) (domain.CartTotals, error) {
	var totals domain.CartTotals
	for _, item := range items {
		line, err := domain.MulAmount(item.UnitPrice, item.Quantity)
		if err != nil {
			return domain.CartTotals{}, err
		}
		if totals.Subtotal, err = domain.AddAmounts(totals.Subtotal, line); err != nil {
			return domain.CartTotals{}, err
		}
	}

	tax := decimal.NewFromInt(totals.Subtotal).Mul(p.VATRate).Round(0)
	if tax.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return domain.CartTotals{}, domain.ErrAmountOverflow
	}
	totals.Tax = tax.IntPart()

	if len(items) > 0 && totals.Subtotal < p.FreeShippingThreshold {
		totals.Shipping = p.ShippingFee
	}

	total, err := domain.AddAmounts(totals.Subtotal, totals.Tax)
	if err != nil {
		return domain.CartTotals{}, err
	}
	if totals.Total, err = domain.AddAmounts(total, totals.Shipping); err != nil {
		return domain.CartTotals{}, err
	}
	return totals, nil
}
