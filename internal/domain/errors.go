package domain

import "errors"

// Validation
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidStatus          = errors.New("invalid investment status")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidInput           = errors.New("invalid input")
	ErrProjectNotEligible     = errors.New("project is not open for investment")
	ErrTransactionCapExceeded = errors.New("amount exceeds trust band transaction cap")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrNotAnInvestor          = errors.New("voter holds no investment in project")
	ErrAmountOverflow         = errors.New("amount overflow")
)

// Not found
var (
	ErrInvestorNotFound   = errors.New("investor not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrEscrowNotFound     = errors.New("escrow not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProposalNotFound   = errors.New("proposal not found")
)

// Conflict
var (
	ErrDuplicateInvestment = errors.New("investment already exists for investor and project")
	ErrUserExists          = errors.New("user already exists")
	ErrEscrowAlreadyExists = errors.New("escrow already exists for investment")
	ErrEscrowAlreadyBound  = errors.New("escrow already bound to on-chain escrow")
	ErrAlreadyVoted        = errors.New("voter has already voted on proposal")
	ErrCartBusy            = errors.New("cart is locked by another request")
)

// State
var (
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrEscrowAmountMismatch = errors.New("escrow amount does not match investment amount")
	ErrEscrowNotEscrowed    = errors.New("investment is not escrowed")
	ErrProposalClosed       = errors.New("proposal is closed")
	ErrChainStateMismatch   = errors.New("on-chain escrow does not match record")
)

// External
var (
	ErrPaymentFailed    = errors.New("payment failed")
	ErrChainUnavailable = errors.New("chain unavailable")
	ErrCallbackFailed   = errors.New("webhook callback failed")
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindState
	KindExternal
)

type kindRule struct {
	sentinel error
	kind     ErrorKind
}

// errorKinds is checked in order, so an error wrapping several sentinels
// always gets the same kind.
var errorKinds = []kindRule{
	{ErrInvalidAmount, KindValidation},
	{ErrInvalidStatus, KindValidation},
	{ErrInvalidQuantity, KindValidation},
	{ErrInvalidInput, KindValidation},
	{ErrProjectNotEligible, KindValidation},
	{ErrTransactionCapExceeded, KindValidation},
	{ErrEmptyCart, KindValidation},
	{ErrNotAnInvestor, KindValidation},
	{ErrAmountOverflow, KindValidation},

	{ErrInvestorNotFound, KindNotFound},
	{ErrProjectNotFound, KindNotFound},
	{ErrInvestmentNotFound, KindNotFound},
	{ErrPaymentNotFound, KindNotFound},
	{ErrEscrowNotFound, KindNotFound},
	{ErrOrderNotFound, KindNotFound},
	{ErrCartItemNotFound, KindNotFound},
	{ErrProposalNotFound, KindNotFound},

	{ErrDuplicateInvestment, KindConflict},
	{ErrUserExists, KindConflict},
	{ErrEscrowAlreadyExists, KindConflict},
	{ErrEscrowAlreadyBound, KindConflict},
	{ErrAlreadyVoted, KindConflict},
	{ErrCartBusy, KindConflict},

	{ErrInvalidTransition, KindState},
	{ErrEscrowAmountMismatch, KindState},
	{ErrEscrowNotEscrowed, KindState},
	{ErrProposalClosed, KindState},
	{ErrChainStateMismatch, KindState},

	{ErrPaymentFailed, KindExternal},
	{ErrChainUnavailable, KindExternal},
	{ErrCallbackFailed, KindExternal},
}

// Kind classifies err by the first rule in errorKinds its chain matches.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindInternal
	}
	for _, rule := range errorKinds {
		if errors.Is(err, rule.sentinel) {
			return rule.kind
		}
	}
	return KindInternal
}
