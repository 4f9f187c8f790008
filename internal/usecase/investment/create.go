package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/trustband"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
	"github.com/google/uuid"
)

var creatableStatuses = map[domain.InvestmentStatus]bool{
	domain.InvestmentPending:  true,
	domain.InvestmentApproved: true,
	domain.InvestmentEscrowed: true,
}

// CreateInvestment writes the investment, its payment and escrow rows and the
// project total in one transaction. The project row stays locked from the
// duplicate check until commit.
func (uc *DefaultInvestmentUsecase) CreateInvestment(ctx context.Context, input *investmentdto.CreateInvestmentInput) (*investmentdto.InvestmentOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.Status == "" {
		input.Status = domain.InvestmentPending
	}
	if !creatableStatuses[input.Status] {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, input.Status)
	}

	out := &investmentdto.InvestmentOutput{RequestedAmount: input.Amount}
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		out.Payment, out.Escrow = nil, nil

		investor, err := uc.repos.Users.GetUserByID(ctx, input.InvestorID)
		if err != nil {
			return err
		}
		if investor.Role != domain.RoleInvestor {
			return fmt.Errorf("%w: user %s has role %s", domain.ErrInvalidInput, investor.ID, investor.Role)
		}
		project, err := uc.repos.Projects.GetProjectForUpdate(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if !project.AcceptsInvestments() {
			return fmt.Errorf("%w: project status %s", domain.ErrProjectNotEligible, project.Status)
		}

		finalAmount := domain.ClampAmount(input.Amount, project.MinInvestment, project.MaxInvestment)
		if err := uc.checkTransactionCap(investor, finalAmount); err != nil {
			return err
		}

		if _, err := uc.repos.Investments.FindInvestment(ctx, investor.ID, project.ID); err == nil {
			return domain.ErrDuplicateInvestment
		} else if !errors.Is(err, domain.ErrInvestmentNotFound) {
			return err
		}

		now := uc.now()
		investment := &domain.Investment{
			ID:         uuid.NewString(),
			InvestorID: investor.ID,
			ProjectID:  project.ID,
			Amount:     finalAmount,
			Status:     input.Status,
			Notes:      input.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		investment.TransactionHash = uc.ids.transactionHash(investment.ID)
		if err := uc.repos.Investments.CreateInvestment(ctx, investment); err != nil {
			return err
		}

		if investment.Status.RequiresPayment() {
			if out.Payment, err = uc.createPayment(ctx, investment, input.PaymentMethod); err != nil {
				return err
			}
		}
		if investment.Status == domain.InvestmentEscrowed {
			if out.Escrow, err = uc.createEscrow(ctx, investment); err != nil {
				return fmt.Errorf("create escrow record: %w", err)
			}
		}

		if err := uc.repos.Projects.AddToCurrentAmount(ctx, project.ID, finalAmount); err != nil {
			return err
		}

		out.Investment = *investment
		out.Clamped = finalAmount != input.Amount
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("create_investment", kindLabel(err))
		return nil, err
	}

	inv := out.Investment
	slog.InfoContext(ctx, "investment created",
		"investment_id", inv.ID, "project_id", inv.ProjectID, "status", inv.Status,
		"requested", input.Amount, "amount", inv.Amount)
	uc.metrics.RecordInvestmentCreated(string(inv.Status), uc.settings.Currency, inv.Amount, out.Clamped)
	uc.publish(ctx, "investment.created", &inv)
	return out, nil
}

func (uc *DefaultInvestmentUsecase) checkTransactionCap(investor *domain.User, amount int64) error {
	band := trustband.ToFRDBand(investor.TrustBand)
	limit, ok := uc.settings.TransactionCaps[band]
	if ok && limit > 0 && amount > limit {
		return fmt.Errorf("%w: band %s allows %d", domain.ErrTransactionCapExceeded, band, limit)
	}
	return nil
}

func (uc *DefaultInvestmentUsecase) createPayment(ctx context.Context, investment *domain.Investment, method string) (*domain.Payment, error) {
	if method == "" {
		method = "wallet"
	}
	investmentID := investment.ID
	now := uc.now()
	payment := &domain.Payment{
		ID:              uuid.NewString(),
		UserID:          investment.InvestorID,
		InvestmentID:    &investmentID,
		Amount:          investment.Amount,
		Currency:        uc.settings.Currency,
		Status:          domain.PaymentCompleted,
		PaymentMethod:   method,
		TransactionID:   uc.ids.paymentTransactionID(),
		GatewayResponse: `{"status":"completed","source":"investment"}`,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repos.Payments.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (uc *DefaultInvestmentUsecase) createEscrow(ctx context.Context, investment *domain.Investment) (*domain.EscrowContract, error) {
	return uc.escrows.CreateEscrowRecord(ctx, &escrowdto.CreateEscrowRecordInput{
		InvestmentID:      investment.ID,
		ProjectID:         investment.ProjectID,
		ContractAddress:   contractAddress(investment.ID),
		Amount:            investment.Amount,
		ReleaseConditions: uc.settings.ReleaseConditions,
	})
}

func (uc *DefaultInvestmentUsecase) publish(ctx context.Context, eventType string, inv *domain.Investment) {
	err := uc.publisher.PublishEvent(ctx, domain.Event{
		Topic:      domain.TopicInvestmentEvents,
		Key:        inv.ID,
		Type:       eventType,
		OccurredAt: uc.now(),
		Payload: map[string]any{
			"investment_id":    inv.ID,
			"investor_id":      inv.InvestorID,
			"project_id":       inv.ProjectID,
			"amount":           inv.Amount,
			"status":           string(inv.Status),
			"transaction_hash": inv.TransactionHash,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish investment event", "investment_id", inv.ID, "type", eventType, "error", err)
	}
}

func kindLabel(err error) string {
	switch domain.Kind(err) {
	case domain.KindValidation:
		return "validation"
	case domain.KindNotFound:
		return "not_found"
	case domain.KindConflict:
		return "conflict"
	case domain.KindState:
		return "state"
	case domain.KindExternal:
		return "external"
	}
	return "internal"
}
