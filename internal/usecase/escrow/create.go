package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// CreateEscrowRecord stores the mirror row for an investment that has just
// become ESCROWED. It joins the caller's transaction when there is one.
func (uc *DefaultEscrowUsecase) CreateEscrowRecord(ctx context.Context, input *escrowdto.CreateEscrowRecordInput) (*domain.EscrowContract, error) {
	if !common.IsHexAddress(input.ContractAddress) {
		return nil, fmt.Errorf("%w: contract address %q", domain.ErrInvalidInput, input.ContractAddress)
	}
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var escrow *domain.EscrowContract
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		investment, err := uc.repos.Investments.GetInvestmentByID(ctx, input.InvestmentID)
		if err != nil {
			return err
		}
		if investment.Status != domain.InvestmentEscrowed {
			return domain.ErrEscrowNotEscrowed
		}
		if investment.ProjectID != input.ProjectID {
			return fmt.Errorf("%w: investment belongs to project %s", domain.ErrInvalidInput, investment.ProjectID)
		}
		if investment.Amount != input.Amount {
			return domain.ErrEscrowAmountMismatch
		}
		if _, err := uc.repos.Escrows.GetEscrowByInvestmentID(ctx, input.InvestmentID); err == nil {
			return domain.ErrEscrowAlreadyExists
		} else if !errors.Is(err, domain.ErrEscrowNotFound) {
			return err
		}

		now := uc.now()
		escrow = &domain.EscrowContract{
			ID:                uuid.NewString(),
			InvestmentID:      input.InvestmentID,
			ProjectID:         input.ProjectID,
			ContractAddress:   common.HexToAddress(input.ContractAddress).Hex(),
			Amount:            input.Amount,
			Status:            domain.EscrowActive,
			ReleaseConditions: input.ReleaseConditions,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return uc.repos.Escrows.CreateEscrow(ctx, escrow)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordEscrowTransition(string(domain.EscrowActive))
	return escrow, nil
}
