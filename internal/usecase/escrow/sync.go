package usecase

import (
	"context"
	"log/slog"
	"time"

	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
)

// SyncChainEvents applies every event published since the stored cursor.
// On failure the cursor stays on the failing block; already processed events
// in that block are skipped on the next pass.
func (uc *DefaultEscrowUsecase) SyncChainEvents(ctx context.Context) (*escrowdto.SyncOutput, error) {
	started := time.Now()

	from, err := uc.repos.Cursors.GetCursor(ctx, uc.cursorName)
	if err != nil {
		return nil, err
	}
	if from < uc.startBlock {
		from = uc.startBlock
	}

	events, next, err := uc.events.FetchEvents(ctx, from)
	if err != nil {
		return nil, err
	}

	out := &escrowdto.SyncOutput{FromBlock: from, NextBlock: next, Seen: len(events)}
	for _, event := range events {
		res, err := uc.ApplyChainEvent(ctx, event)
		if err != nil {
			if saveErr := uc.repos.Cursors.SaveCursor(ctx, uc.cursorName, event.BlockNumber); saveErr != nil {
				slog.ErrorContext(ctx, "failed to save chain cursor", "error", saveErr)
			}
			out.NextBlock = event.BlockNumber
			return out, err
		}
		if res.Applied {
			out.Applied++
		} else {
			out.Skipped++
		}
	}

	if err := uc.repos.Cursors.SaveCursor(ctx, uc.cursorName, next); err != nil {
		return out, err
	}
	uc.metrics.RecordChainSync(time.Since(started).Seconds(), next)
	if out.Seen > 0 {
		slog.InfoContext(ctx, "chain events synced", "from", from, "next", next, "seen", out.Seen, "applied", out.Applied)
	}
	return out, nil
}
