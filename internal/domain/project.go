package domain

import (
	"context"
	"time"
)

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "DRAFT"
	ProjectApproved  ProjectStatus = "APPROVED"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectFunded    ProjectStatus = "FUNDED"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Project amounts are minor units of the settlement currency.
type Project struct {
	ID            string
	FundraiserID  string
	Title         string
	MinInvestment int64
	MaxInvestment *int64
	CurrentAmount int64
	Status        ProjectStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AcceptsInvestments reports whether new investments may be created.
func (p *Project) AcceptsInvestments() bool {
	return p.Status == ProjectApproved || p.Status == ProjectActive
}

// ClampAmount restricts amount to [min, max]; a nil max leaves the upper side open.
func ClampAmount(amount, min int64, max *int64) int64 {
	upper := amount
	if max != nil {
		upper = *max
	}
	if amount > upper {
		amount = upper
	}
	if amount < min {
		amount = min
	}
	return amount
}

type ProjectFilter struct {
	Statuses []ProjectStatus
	Page     int
	Limit    int
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProjectByID(ctx context.Context, projectID string) (*Project, error)
	// GetProjectForUpdate locks the row until the surrounding transaction ends.
	GetProjectForUpdate(ctx context.Context, projectID string) (*Project, error)
	AddToCurrentAmount(ctx context.Context, projectID string, delta int64) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*Project, int64, error)
}
