package models

import "time"

type ProjectModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	FundraiserID  string `gorm:"type:uuid;index"`
	Title         string `gorm:"not null"`
	MinInvestment int64  `gorm:"not null;default:0"`
	MaxInvestment *int64
	CurrentAmount int64  `gorm:"not null;default:0"`
	Status        string `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ProjectModel) TableName() string { return "projects" }
