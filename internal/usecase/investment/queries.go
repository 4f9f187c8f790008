package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/trustband"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (uc *DefaultInvestmentUsecase) GetInvestment(ctx context.Context, investmentID string) (*investmentdto.InvestmentOutput, error) {
	investment, err := uc.repos.Investments.GetInvestmentByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	out := &investmentdto.InvestmentOutput{Investment: *investment, RequestedAmount: investment.Amount}

	out.Payment, err = uc.repos.Payments.GetPaymentByInvestmentID(ctx, investmentID)
	if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, err
	}
	out.Escrow, err = uc.repos.Escrows.GetEscrowByInvestmentID(ctx, investmentID)
	if err != nil && !errors.Is(err, domain.ErrEscrowNotFound) {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultInvestmentUsecase) ListInvestorInvestments(ctx context.Context, investorID string) ([]*domain.Investment, error) {
	if _, err := uc.repos.Users.GetUserByID(ctx, investorID); err != nil {
		return nil, err
	}
	return uc.repos.Investments.ListInvestorInvestments(ctx, investorID)
}

func (uc *DefaultInvestmentUsecase) ListProjectInvestments(ctx context.Context, projectID string) ([]*domain.Investment, error) {
	if _, err := uc.repos.Projects.GetProjectByID(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.repos.Investments.ListProjectInvestments(ctx, projectID)
}

func (uc *DefaultInvestmentUsecase) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return uc.repos.Projects.GetProjectByID(ctx, projectID)
}

func (uc *DefaultInvestmentUsecase) ListProjects(ctx context.Context, input *investmentdto.ListProjectsInput) (*investmentdto.ListProjectsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := input.Page
	if page < 0 {
		page = 0
	}
	projects, total, err := uc.repos.Projects.ListProjects(ctx, domain.ProjectFilter{
		Statuses: input.Statuses,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return &investmentdto.ListProjectsOutput{Projects: projects, Total: total}, nil
}

// RegisterUser stores an investor or fundraiser. The trust band is kept in
// the internal A..D vocabulary whichever vocabulary the caller used.
func (uc *DefaultInvestmentUsecase) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	switch user.Role {
	case "":
		user.Role = domain.RoleInvestor
	case domain.RoleInvestor, domain.RoleFundraiser, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %s", domain.ErrInvalidInput, user.Role)
	}
	if user.WalletAddress != "" && !common.IsHexAddress(user.WalletAddress) {
		return nil, fmt.Errorf("%w: wallet address", domain.ErrInvalidInput)
	}
	if trustband.IsInternalBand(user.TrustBand) {
		user.TrustBand = strings.ToUpper(strings.TrimSpace(user.TrustBand))
	} else {
		user.TrustBand = trustband.ToInternalBand(user.TrustBand)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = uc.now()
	if err := uc.repos.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *DefaultInvestmentUsecase) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if strings.TrimSpace(project.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if project.MinInvestment < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if project.MaxInvestment != nil && *project.MaxInvestment < project.MinInvestment {
		return nil, fmt.Errorf("%w: max investment below min investment", domain.ErrInvalidAmount)
	}
	if project.Status == "" {
		project.Status = domain.ProjectDraft
	}
	fundraiser, err := uc.repos.Users.GetUserByID(ctx, project.FundraiserID)
	if err != nil {
		return nil, err
	}
	if fundraiser.Role == domain.RoleInvestor {
		return nil, fmt.Errorf("%w: user %s cannot raise funds", domain.ErrInvalidInput, fundraiser.ID)
	}

	now := uc.now()
	project.ID = uuid.NewString()
	project.CurrentAmount = 0
	project.CreatedAt = now
	project.UpdatedAt = now
	if err := uc.repos.Projects.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
