package escrowdto

import "github.com/LavaJover/trust-marketplace-service/internal/domain"

// ApplyResult tells what a chain event did to the mirror.
type ApplyResult struct {
	Applied   bool
	Duplicate bool
	Escrow    *domain.EscrowContract
}

type SyncOutput struct {
	FromBlock uint64
	NextBlock uint64
	Seen      int
	Applied   int
	Skipped   int
}
