package models

import "time"

type InvestmentModel struct {
	ID              string       `gorm:"primaryKey;type:uuid"`
	InvestorID      string       `gorm:"type:uuid;not null;uniqueIndex:idx_investor_project"`
	ProjectID       string       `gorm:"type:uuid;not null;uniqueIndex:idx_investor_project;index"`
	Project         ProjectModel `gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Amount          int64        `gorm:"not null"`
	Status          string       `gorm:"index;not null"`
	TransactionHash string       `gorm:"size:64;uniqueIndex"`
	Notes           string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (InvestmentModel) TableName() string { return "investments" }
