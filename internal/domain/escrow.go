package domain

import (
	"context"
	"time"
)

type EscrowStatus string

const (
	EscrowPending   EscrowStatus = "PENDING"
	EscrowActive    EscrowStatus = "ACTIVE"
	EscrowReleased  EscrowStatus = "RELEASED"
	EscrowRefunded  EscrowStatus = "REFUNDED"
	EscrowCancelled EscrowStatus = "CANCELLED"
)

func (s EscrowStatus) Terminal() bool {
	return s == EscrowReleased || s == EscrowRefunded || s == EscrowCancelled
}

// EscrowContract is the off-chain mirror of an on-chain escrow.
type EscrowContract struct {
	ID                string
	InvestmentID      string
	ProjectID         string
	ContractAddress   string
	ChainEscrowID     *uint64
	Amount            int64
	Status            EscrowStatus
	ReleaseConditions string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type EscrowRepository interface {
	CreateEscrow(ctx context.Context, escrow *EscrowContract) error
	GetEscrowByID(ctx context.Context, escrowID string) (*EscrowContract, error)
	GetEscrowByInvestmentID(ctx context.Context, investmentID string) (*EscrowContract, error)
	GetEscrowByChainID(ctx context.Context, chainEscrowID uint64) (*EscrowContract, error)
	ListProjectEscrows(ctx context.Context, projectID string) ([]*EscrowContract, error)
	BindChainEscrow(ctx context.Context, escrowID string, chainEscrowID uint64) error
	UpdateEscrowStatus(ctx context.Context, escrowID string, status EscrowStatus) error
}

// ChainEscrowState mirrors the contract enum ordinal.
type ChainEscrowState uint8

const (
	ChainEscrowCreated ChainEscrowState = iota
	ChainEscrowActive
	ChainEscrowReleased
	ChainEscrowRefunded
	ChainEscrowCancelled
)

func (s ChainEscrowState) String() string {
	switch s {
	case ChainEscrowCreated:
		return "CREATED"
	case ChainEscrowActive:
		return "ACTIVE"
	case ChainEscrowReleased:
		return "RELEASED"
	case ChainEscrowRefunded:
		return "REFUNDED"
	case ChainEscrowCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// MirrorStatus maps an on-chain state onto the mirror status vocabulary.
func (s ChainEscrowState) MirrorStatus() EscrowStatus {
	switch s {
	case ChainEscrowActive:
		return EscrowActive
	case ChainEscrowReleased:
		return EscrowReleased
	case ChainEscrowRefunded:
		return EscrowRefunded
	case ChainEscrowCancelled:
		return EscrowCancelled
	}
	return EscrowPending
}

// ChainEscrow is the read-only projection returned by getEscrow.
type ChainEscrow struct {
	ID                  uint64
	Depositor           string
	Beneficiary         string
	Amount              uint64
	ReleaseConditions   string
	State               ChainEscrowState
	DepositorApproved   bool
	BeneficiaryApproved bool
}

type ChainEventType string

const (
	ChainEventCreated   ChainEventType = "EscrowCreated"
	ChainEventApproved  ChainEventType = "EscrowApproved"
	ChainEventActivated ChainEventType = "EscrowActivated"
	ChainEventReleased  ChainEventType = "EscrowReleased"
	ChainEventRefunded  ChainEventType = "EscrowRefunded"
	ChainEventCancelled ChainEventType = "EscrowCancelled"
)

// ChainEvent is a decoded, confirmed contract log.
type ChainEvent struct {
	Type        ChainEventType
	EscrowID    uint64
	Depositor   string
	Beneficiary string
	Party       string
	Amount      uint64
	TxHash      string
	LogIndex    uint
	BlockNumber uint64
}

type ChainReader interface {
	GetEscrow(ctx context.Context, escrowID uint64) (*ChainEscrow, error)
}

// ChainEventSource returns confirmed events in [fromBlock, head] ordered by
// (block, log index) together with the next block to query.
type ChainEventSource interface {
	FetchEvents(ctx context.Context, fromBlock uint64) ([]ChainEvent, uint64, error)
}

type ChainCursorRepository interface {
	GetCursor(ctx context.Context, name string) (uint64, error)
	SaveCursor(ctx context.Context, name string, block uint64) error
	// MarkEventProcessed returns false when the event was already recorded.
	MarkEventProcessed(ctx context.Context, txHash string, logIndex uint) (bool, error)
}
