package domain

import (
	"context"
	"time"
)

type ProposalStatus string

const (
	ProposalOpen   ProposalStatus = "OPEN"
	ProposalClosed ProposalStatus = "CLOSED"
)

type VoteChoice string

const (
	VoteFor     VoteChoice = "FOR"
	VoteAgainst VoteChoice = "AGAINST"
	VoteAbstain VoteChoice = "ABSTAIN"
)

func (c VoteChoice) Valid() bool {
	return c == VoteFor || c == VoteAgainst || c == VoteAbstain
}

type Proposal struct {
	ID        string
	ProjectID string
	Title     string
	Status    ProposalStatus
	ClosesAt  time.Time
	CreatedAt time.Time
}

type Vote struct {
	ProposalID string
	VoterID    string
	Choice     VoteChoice
	Weight     int64
	CastAt     time.Time
}

type Tally struct {
	ProposalID string
	For        int64
	Against    int64
	Abstain    int64
	Voters     int
}

type GovernanceRepository interface {
	CreateProposal(ctx context.Context, proposal *Proposal) error
	GetProposalByID(ctx context.Context, proposalID string) (*Proposal, error)
	CreateVote(ctx context.Context, vote *Vote) error
	ListVotes(ctx context.Context, proposalID string) ([]*Vote, error)
}
