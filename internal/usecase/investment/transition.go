package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
)

// TransitionInvestment moves an investment along the lattice. RELEASED and
// REFUNDED follow verified chain events and cannot be requested here.
func (uc *DefaultInvestmentUsecase) TransitionInvestment(ctx context.Context, input *investmentdto.TransitionInvestmentInput) (*investmentdto.InvestmentOutput, error) {
	target := input.TargetStatus
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, target)
	}
	if target == domain.InvestmentReleased || target == domain.InvestmentRefunded {
		return nil, fmt.Errorf("%w: %s is set by escrow settlement", domain.ErrInvalidTransition, target)
	}

	out := &investmentdto.InvestmentOutput{}
	var from domain.InvestmentStatus
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		out.Payment, out.Escrow = nil, nil

		investment, err := uc.repos.Investments.GetInvestmentByID(ctx, input.InvestmentID)
		if err != nil {
			return err
		}
		// lock order matches CreateInvestment
		if _, err := uc.repos.Projects.GetProjectForUpdate(ctx, investment.ProjectID); err != nil {
			return err
		}
		from = investment.Status
		if !from.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
		}
		if err := uc.repos.Investments.UpdateInvestmentStatus(ctx, investment.ID, target); err != nil {
			return err
		}
		investment.Status = target
		investment.UpdatedAt = uc.now()

		payment, err := uc.repos.Payments.GetPaymentByInvestmentID(ctx, investment.ID)
		if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}

		switch target {
		case domain.InvestmentCancelled:
			if payment != nil {
				if err := uc.repos.Payments.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentRefunded); err != nil {
					return err
				}
				payment.Status = domain.PaymentRefunded
			}
			if err := uc.repos.Projects.AddToCurrentAmount(ctx, investment.ProjectID, -investment.Amount); err != nil {
				return err
			}
		default:
			if payment == nil && target.RequiresPayment() {
				if payment, err = uc.createPayment(ctx, investment, input.PaymentMethod); err != nil {
					return err
				}
			}
			if target == domain.InvestmentEscrowed {
				if out.Escrow, err = uc.createEscrow(ctx, investment); err != nil {
					return fmt.Errorf("create escrow record: %w", err)
				}
			}
		}

		out.Investment = *investment
		out.Payment = payment
		out.RequestedAmount = investment.Amount
		return nil
	})
	if err != nil {
		uc.metrics.RecordError("transition_investment", kindLabel(err))
		return nil, err
	}

	inv := out.Investment
	slog.InfoContext(ctx, "investment transitioned", "investment_id", inv.ID, "from", from, "to", inv.Status)
	uc.metrics.RecordInvestmentTransition(string(from), string(inv.Status))
	uc.publish(ctx, "investment."+strings.ToLower(string(inv.Status)), &inv)
	return out, nil
}
