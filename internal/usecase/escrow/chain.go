package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	"github.com/ethereum/go-ethereum/common"
)

var eventTargets = map[domain.ChainEventType]domain.EscrowStatus{
	domain.ChainEventActivated: domain.EscrowActive,
	domain.ChainEventReleased:  domain.EscrowReleased,
	domain.ChainEventRefunded:  domain.EscrowRefunded,
	domain.ChainEventCancelled: domain.EscrowCancelled,
}

// BindOnChainEscrow links a mirror row to its on-chain escrow after checking
// the chain agrees on the amount and the parties, then adopts the on-chain state.
func (uc *DefaultEscrowUsecase) BindOnChainEscrow(ctx context.Context, input *escrowdto.BindOnChainEscrowInput) (*domain.EscrowContract, error) {
	onChain, err := uc.chain.GetEscrow(ctx, input.ChainEscrowID)
	if err != nil {
		return nil, err
	}

	var bound *domain.EscrowContract
	var changed bool
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		escrow, err := uc.repos.Escrows.GetEscrowByInvestmentID(ctx, input.InvestmentID)
		if err != nil {
			return err
		}
		if escrow.ChainEscrowID != nil {
			return domain.ErrEscrowAlreadyBound
		}
		if escrow.Amount < 0 || onChain.Amount != uint64(escrow.Amount) {
			return fmt.Errorf("%w: on-chain amount %d, record amount %d", domain.ErrChainStateMismatch, onChain.Amount, escrow.Amount)
		}
		if err := uc.checkParties(ctx, escrow, onChain); err != nil {
			return err
		}
		if err := uc.repos.Escrows.BindChainEscrow(ctx, escrow.ID, input.ChainEscrowID); err != nil {
			return err
		}
		id := input.ChainEscrowID
		escrow.ChainEscrowID = &id

		changed, err = uc.applyStatus(ctx, escrow, onChain.State.MirrorStatus())
		if err != nil {
			return err
		}
		bound = escrow
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "escrow bound to chain", "escrow_id", bound.ID, "chain_escrow_id", input.ChainEscrowID, "status", bound.Status)
	if changed {
		uc.publishStatus(ctx, bound, "")
	}
	return bound, nil
}

// checkParties requires the on-chain depositor to be the investor's wallet and
// the beneficiary to be the fundraiser's wallet.
func (uc *DefaultEscrowUsecase) checkParties(ctx context.Context, escrow *domain.EscrowContract, onChain *domain.ChainEscrow) error {
	investment, err := uc.repos.Investments.GetInvestmentByID(ctx, escrow.InvestmentID)
	if err != nil {
		return err
	}
	investor, err := uc.repos.Users.GetUserByID(ctx, investment.InvestorID)
	if err != nil {
		return err
	}
	project, err := uc.repos.Projects.GetProjectByID(ctx, investment.ProjectID)
	if err != nil {
		return err
	}
	fundraiser, err := uc.repos.Users.GetUserByID(ctx, project.FundraiserID)
	if err != nil {
		return err
	}

	if err := sameWallet("depositor", investor, onChain.Depositor); err != nil {
		return err
	}
	return sameWallet("beneficiary", fundraiser, onChain.Beneficiary)
}

func sameWallet(party string, user *domain.User, onChain string) error {
	if !common.IsHexAddress(user.WalletAddress) {
		return fmt.Errorf("%w: %s %s has no wallet address", domain.ErrChainStateMismatch, party, user.ID)
	}
	if common.HexToAddress(user.WalletAddress) != common.HexToAddress(onChain) {
		return fmt.Errorf("%w: on-chain %s %s is not %s's wallet", domain.ErrChainStateMismatch, party, onChain, user.ID)
	}
	return nil
}

// ApplyChainEvent is the only path by which a mirror row changes status after
// creation. Each (tx hash, log index) is applied at most once.
func (uc *DefaultEscrowUsecase) ApplyChainEvent(ctx context.Context, event domain.ChainEvent) (*escrowdto.ApplyResult, error) {
	result := &escrowdto.ApplyResult{}
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		*result = escrowdto.ApplyResult{}

		fresh, err := uc.repos.Cursors.MarkEventProcessed(ctx, event.TxHash, event.LogIndex)
		if err != nil {
			return err
		}
		if !fresh {
			result.Duplicate = true
			return nil
		}

		escrow, err := uc.repos.Escrows.GetEscrowByChainID(ctx, event.EscrowID)
		if err != nil {
			if domain.Kind(err) == domain.KindNotFound {
				return nil
			}
			return err
		}
		result.Escrow = escrow

		if event.Type == domain.ChainEventCreated && event.Amount != uint64(escrow.Amount) {
			slog.WarnContext(ctx, "escrow created on chain with a different amount",
				"escrow_id", escrow.ID, "chain_amount", event.Amount, "record_amount", escrow.Amount)
		}
		target, ok := eventTargets[event.Type]
		if !ok {
			return nil
		}

		applied, err := uc.applyStatus(ctx, escrow, target)
		if err != nil {
			if domain.Kind(err) == domain.KindState {
				slog.WarnContext(ctx, "chain event conflicts with mirror state",
					"escrow_id", escrow.ID, "event", event.Type, "status", escrow.Status, "error", err)
				return nil
			}
			return err
		}
		result.Applied = applied
		return nil
	})
	if err != nil {
		uc.metrics.RecordChainEvent(string(event.Type), "error")
		return nil, err
	}

	switch {
	case result.Duplicate:
		uc.metrics.RecordChainEvent(string(event.Type), "duplicate")
	case result.Applied:
		uc.metrics.RecordChainEvent(string(event.Type), "applied")
		uc.publishStatus(ctx, result.Escrow, event.TxHash)
	default:
		uc.metrics.RecordChainEvent(string(event.Type), "ignored")
	}
	return result, nil
}

// applyStatus moves the mirror row to target and carries the consequences
// over to the investment, its payment and the project total. Every check runs
// before the first write.
func (uc *DefaultEscrowUsecase) applyStatus(ctx context.Context, escrow *domain.EscrowContract, target domain.EscrowStatus) (bool, error) {
	if escrow.Status == target {
		return false, nil
	}
	if escrow.Status.Terminal() {
		return false, fmt.Errorf("%w: escrow %s is %s", domain.ErrInvalidTransition, escrow.ID, escrow.Status)
	}

	var investmentTarget domain.InvestmentStatus
	switch target {
	case domain.EscrowReleased:
		investmentTarget = domain.InvestmentReleased
	case domain.EscrowRefunded, domain.EscrowCancelled:
		// An escrowed investment cannot be cancelled; its funds went back to the investor.
		investmentTarget = domain.InvestmentRefunded
	}

	var investment *domain.Investment
	if investmentTarget != "" {
		var err error
		investment, err = uc.repos.Investments.GetInvestmentByID(ctx, escrow.InvestmentID)
		if err != nil {
			return false, err
		}
		if !investment.Status.CanTransitionTo(investmentTarget) {
			return false, fmt.Errorf("%w: investment %s is %s", domain.ErrInvalidTransition, investment.ID, investment.Status)
		}
	}

	if err := uc.repos.Escrows.UpdateEscrowStatus(ctx, escrow.ID, target); err != nil {
		return false, err
	}
	escrow.Status = target
	escrow.UpdatedAt = uc.now()
	if investment == nil {
		return true, nil
	}

	if err := uc.repos.Investments.UpdateInvestmentStatus(ctx, investment.ID, investmentTarget); err != nil {
		return false, err
	}
	uc.metrics.RecordInvestmentTransition(string(investment.Status), string(investmentTarget))

	if investmentTarget == domain.InvestmentRefunded {
		payment, err := uc.repos.Payments.GetPaymentByInvestmentID(ctx, investment.ID)
		switch {
		case err == nil:
			if err := uc.repos.Payments.UpdatePaymentStatus(ctx, payment.ID, domain.PaymentRefunded); err != nil {
				return false, err
			}
		case domain.Kind(err) != domain.KindNotFound:
			return false, err
		}
		if err := uc.repos.Projects.AddToCurrentAmount(ctx, investment.ProjectID, -investment.Amount); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (uc *DefaultEscrowUsecase) publishStatus(ctx context.Context, escrow *domain.EscrowContract, txHash string) {
	uc.metrics.RecordEscrowTransition(string(escrow.Status))
	payload := map[string]any{
		"escrow_id":     escrow.ID,
		"investment_id": escrow.InvestmentID,
		"project_id":    escrow.ProjectID,
		"status":        string(escrow.Status),
		"amount":        escrow.Amount,
	}
	if escrow.ChainEscrowID != nil {
		payload["chain_escrow_id"] = *escrow.ChainEscrowID
	}
	if txHash != "" {
		payload["tx_hash"] = txHash
	}
	err := uc.publisher.PublishEvent(ctx, domain.Event{
		Topic:      domain.TopicEscrowEvents,
		Key:        escrow.ID,
		Type:       "escrow." + strings.ToLower(string(escrow.Status)),
		OccurredAt: uc.now(),
		Payload:    payload,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish escrow event", "escrow_id", escrow.ID, "error", err)
	}
}
