package dto

type CreateUserRequest struct {
	Email         string `json:"email" binding:"required"`
	Role          string `json:"role"`
	TrustBand     string `json:"trust_band"`
	WalletAddress string `json:"wallet_address"`
}

type CreateProjectRequest struct {
	FundraiserID  string `json:"fundraiser_id" binding:"required"`
	Title         string `json:"title" binding:"required"`
	MinInvestment int64  `json:"min_investment"`
	MaxInvestment *int64 `json:"max_investment"`
	Status        string `json:"status"`
}

type CreateInvestmentRequest struct {
	InvestorID    string `json:"investor_id"`
	ProjectID     string `json:"project_id" binding:"required"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

type TransitionInvestmentRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

type BindEscrowRequest struct {
	ChainEscrowID uint64 `json:"chain_escrow_id" binding:"required"`
}

type AddCartItemRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type CreateProposalRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	ClosesAt  string `json:"closes_at" binding:"required"` // RFC3339
}

type CastVoteRequest struct {
	Choice string `json:"choice" binding:"required"`
}

type CreateChainEscrowRequest struct {
	From              string `json:"from" binding:"required"`
	Beneficiary       string `json:"beneficiary" binding:"required"`
	Amount            uint64 `json:"amount"`
	ReleaseConditions string `json:"release_conditions"`
}

type ChainCallRequest struct {
	From string `json:"from" binding:"required"`
}
