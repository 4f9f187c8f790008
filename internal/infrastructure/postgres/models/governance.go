package models

import "time"

type ProposalModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	ProjectID string `gorm:"type:uuid;index;not null"`
	Title     string `gorm:"not null"`
	Status    string `gorm:"index"`
	ClosesAt  time.Time
	CreatedAt time.Time
}

func (ProposalModel) TableName() string { return "proposals" }

type VoteModel struct {
	ProposalID string `gorm:"primaryKey;type:uuid"`
	VoterID    string `gorm:"primaryKey;type:uuid"`
	Choice     string `gorm:"not null"`
	Weight     int64  `gorm:"not null"`
	CastAt     time.Time
}

func (VoteModel) TableName() string { return "votes" }
