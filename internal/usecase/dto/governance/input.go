package governancedto

import (
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

type CreateProposalInput struct {
	ProjectID string
	Title     string
	ClosesAt  time.Time
}

type CastVoteInput struct {
	ProposalID string
	VoterID    string
	Choice     domain.VoteChoice
}
