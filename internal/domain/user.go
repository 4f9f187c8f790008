package domain

import (
	"context"
	"time"
)

type UserRole string

const (
	RoleInvestor   UserRole = "INVESTOR"
	RoleFundraiser UserRole = "FUNDRAISER"
	RoleAdmin      UserRole = "ADMIN"
)

type User struct {
	ID            string
	Email         string
	Role          UserRole
	TrustBand     string // internal band A..D
	WalletAddress string
	CreatedAt     time.Time
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
}
