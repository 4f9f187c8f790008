package escrow

import (
	"fmt"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

// Contract reverts. Each wraps the domain sentinel of the same kind so
// callers can classify them without knowing this package.
var (
	ErrZeroValue          = fmt.Errorf("%w: escrow value must be positive", domain.ErrInvalidAmount)
	ErrInvalidBeneficiary = fmt.Errorf("%w: invalid beneficiary address", domain.ErrInvalidInput)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient balance", domain.ErrInvalidAmount)
	ErrOverflow           = fmt.Errorf("%w: balance overflow", domain.ErrAmountOverflow)
	ErrUnauthorized       = fmt.Errorf("%w: caller is not allowed to perform this operation", domain.ErrInvalidTransition)
	ErrInvalidState       = fmt.Errorf("%w: escrow state forbids operation", domain.ErrInvalidTransition)
	ErrReentrantCall      = fmt.Errorf("%w: reentrant call", domain.ErrInvalidTransition)
	ErrEscrowNotFound     = fmt.Errorf("%w on chain", domain.ErrEscrowNotFound)
)
