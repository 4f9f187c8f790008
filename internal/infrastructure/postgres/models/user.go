package models

import "time"

type UserModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Email         string `gorm:"uniqueIndex"`
	Role          string `gorm:"not null"`
	TrustBand     string `gorm:"size:2;not null;default:'D'"`
	WalletAddress string `gorm:"size:42"`
	CreatedAt     time.Time
}

func (UserModel) TableName() string { return "users" }
