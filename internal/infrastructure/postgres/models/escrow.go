package models

import "time"

type EscrowContractModel struct {
	ID                string  `gorm:"primaryKey;type:uuid"`
	InvestmentID      string  `gorm:"type:uuid;not null;uniqueIndex"`
	ProjectID         string  `gorm:"type:uuid;not null;index"`
	ContractAddress   string  `gorm:"size:42;not null"`
	ChainEscrowID     *uint64 `gorm:"uniqueIndex"`
	Amount            int64   `gorm:"not null"`
	Status            string  `gorm:"index;not null"`
	ReleaseConditions string  `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (EscrowContractModel) TableName() string { return "escrow_contracts" }

// ChainCursorModel stores the next block to scan per event source.
type ChainCursorModel struct {
	Name      string `gorm:"primaryKey"`
	NextBlock uint64 `gorm:"not null"`
	UpdatedAt time.Time
}

func (ChainCursorModel) TableName() string { return "chain_cursors" }

type ProcessedChainEventModel struct {
	TxHash      string `gorm:"primaryKey;size:66"`
	LogIndex    uint   `gorm:"primaryKey"`
	ProcessedAt time.Time
}

func (ProcessedChainEventModel) TableName() string { return "processed_chain_events" }
