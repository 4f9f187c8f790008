package domain

import "math"

// AddAmounts adds two minor-unit amounts, failing instead of wrapping.
func AddAmounts(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// MulAmount multiplies a minor-unit amount by a non-negative quantity.
func MulAmount(amount, quantity int64) (int64, error) {
	if amount == 0 || quantity == 0 {
		return 0, nil
	}
	if amount < 0 || quantity < 0 {
		return 0, ErrInvalidAmount
	}
	if amount > math.MaxInt64/quantity {
		return 0, ErrAmountOverflow
	}
	return amount * quantity, nil
}
