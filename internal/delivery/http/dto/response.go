package dto

import (
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	TrustBand     string    `json:"trust_band"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		TrustBand:     u.TrustBand,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
	}
}

type ProjectResponse struct {
	ID            string    `json:"id"`
	FundraiserID  string    `json:"fundraiser_id"`
	Title         string    `json:"title"`
	MinInvestment int64     `json:"min_investment"`
	MaxInvestment *int64    `json:"max_investment"`
	CurrentAmount int64     `json:"current_amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		FundraiserID:  p.FundraiserID,
		Title:         p.Title,
		MinInvestment: p.MinInvestment,
		MaxInvestment: p.MaxInvestment,
		CurrentAmount: p.CurrentAmount,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type InvestmentResponse struct {
	ID              string    `json:"id"`
	InvestorID      string    `json:"investor_id"`
	ProjectID       string    `json:"project_id"`
	Amount          int64     `json:"amount"`
	Status          string    `json:"status"`
	TransactionHash string    `json:"transaction_hash"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToInvestmentResponse(i *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:              i.ID,
		InvestorID:      i.InvestorID,
		ProjectID:       i.ProjectID,
		Amount:          i.Amount,
		Status:          string(i.Status),
		TransactionHash: i.TransactionHash,
		Notes:           i.Notes,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func ToInvestmentResponses(list []*domain.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, 0, len(list))
	for _, i := range list {
		out = append(out, ToInvestmentResponse(i))
	}
	return out
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	InvestmentID  *string   `json:"investment_id,omitempty"`
	OrderID       *string   `json:"order_id,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToPaymentResponse(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		InvestmentID:  p.InvestmentID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}

type EscrowResponse struct {
	ID                string    `json:"id"`
	InvestmentID      string    `json:"investment_id"`
	ProjectID         string    `json:"project_id"`
	ContractAddress   string    `json:"contract_address"`
	ChainEscrowID     *uint64   `json:"chain_escrow_id"`
	Amount            int64     `json:"amount"`
	Status            string    `json:"status"`
	ReleaseConditions string    `json:"release_conditions"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToEscrowResponse(e *domain.EscrowContract) *EscrowResponse {
	if e == nil {
		return nil
	}
	return &EscrowResponse{
		ID:                e.ID,
		InvestmentID:      e.InvestmentID,
		ProjectID:         e.ProjectID,
		ContractAddress:   e.ContractAddress,
		ChainEscrowID:     e.ChainEscrowID,
		Amount:            e.Amount,
		Status:            string(e.Status),
		ReleaseConditions: e.ReleaseConditions,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToEscrowResponses(list []*domain.EscrowContract) []*EscrowResponse {
	out := make([]*EscrowResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToEscrowResponse(e))
	}
	return out
}

// InvestmentDetailResponse is an investment with the payment and escrow created for it.
type InvestmentDetailResponse struct {
	Investment      InvestmentResponse `json:"investment"`
	Payment         *PaymentResponse   `json:"payment"`
	Escrow          *EscrowResponse    `json:"escrow"`
	RequestedAmount int64              `json:"requested_amount"`
	Clamped         bool               `json:"clamped"`
}

type CartItemResponse struct {
	ProjectID string    `json:"project_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	LineTotal int64     `json:"line_total"`
	AddedAt   time.Time `json:"added_at"`
}

type CartResponse struct {
	UserID   string             `json:"user_id"`
	Items    []CartItemResponse `json:"items"`
	Subtotal int64              `json:"subtotal"`
	Tax      int64              `json:"tax"`
	Shipping int64              `json:"shipping"`
	Total    int64              `json:"total"`
}

func ToCartResponse(cart *domain.Cart, totals domain.CartTotals) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		line, _ := domain.MulAmount(item.UnitPrice, item.Quantity)
		items = append(items, CartItemResponse{
			ProjectID: item.ProjectID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: line,
			AddedAt:   item.AddedAt,
		})
	}
	return CartResponse{
		UserID:   cart.UserID,
		Items:    items,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Shipping: totals.Shipping,
		Total:    totals.Total,
	}
}

type OrderItemResponse struct {
	ProjectID string `json:"project_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	UserID        string              `json:"user_id"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      int64               `json:"subtotal"`
	Tax           int64               `json:"tax"`
	Shipping      int64               `json:"shipping"`
	Total         int64               `json:"total"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

func ToOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{ProjectID: item.ProjectID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		UserID:        o.UserID,
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		Shipping:      o.Shipping,
		Total:         o.Total,
		Currency:      o.Currency,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

type CheckoutResponse struct {
	Order   OrderResponse    `json:"order"`
	Payment *PaymentResponse `json:"payment"`
}

type ProposalResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	ClosesAt  time.Time `json:"closes_at"`
	CreatedAt time.Time `json:"created_at"`
}

func ToProposalResponse(p *domain.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		Title:     p.Title,
		Status:    string(p.Status),
		ClosesAt:  p.ClosesAt,
		CreatedAt: p.CreatedAt,
	}
}

type VoteResponse struct {
	ProposalID string    `json:"proposal_id"`
	VoterID    string    `json:"voter_id"`
	Choice     string    `json:"choice"`
	Weight     int64     `json:"weight"`
	CastAt     time.Time `json:"cast_at"`
}

type TallyResponse struct {
	ProposalID string `json:"proposal_id"`
	For        int64  `json:"for"`
	Against    int64  `json:"against"`
	Abstain    int64  `json:"abstain"`
	Voters     int    `json:"voters"`
}

type TrustBandResponse struct {
	Band        string `json:"band"`
	Valid       bool   `json:"valid"`
	Internal    string `json:"internal"`
	External    string `json:"external"`
	Description string `json:"description"`
}

type ChainEscrowResponse struct {
	ID                  uint64 `json:"id"`
	Depositor           string `json:"depositor"`
	Beneficiary         string `json:"beneficiary"`
	Amount              uint64 `json:"amount"`
	ReleaseConditions   string `json:"release_conditions"`
	State               string `json:"state"`
	DepositorApproved   bool   `json:"depositor_approved"`
	BeneficiaryApproved bool   `json:"beneficiary_approved"`
}

func ToChainEscrowResponse(e *domain.ChainEscrow) ChainEscrowResponse {
	return ChainEscrowResponse{
		ID:                  e.ID,
		Depositor:           e.Depositor,
		Beneficiary:         e.Beneficiary,
		Amount:              e.Amount,
		ReleaseConditions:   e.ReleaseConditions,
		State:               e.State.String(),
		DepositorApproved:   e.DepositorApproved,
		BeneficiaryApproved: e.BeneficiaryApproved,
	}
}

type SyncResponse struct {
	FromBlock uint64 `json:"from_block"`
	NextBlock uint64 `json:"next_block"`
	Seen      int    `json:"seen"`
	Applied   int    `json:"applied"`
	Skipped   int    `json:"skipped"`
}
