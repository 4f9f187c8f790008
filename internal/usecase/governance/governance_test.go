package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/memory"
	governancedto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/governance"
)

func newGovernance(t *testing.T) (*memory.Store, *DefaultGovernanceUsecase) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	if err := store.CreateProject(ctx, &domain.Project{ID: "p1", Title: "Solar", Status: domain.ProjectActive}); err != nil {
		t.Fatal(err)
	}
	investments := []*domain.Investment{
		{ID: "i1", InvestorID: "alice", ProjectID: "p1", Amount: 3000, Status: domain.InvestmentEscrowed},
		{ID: "i2", InvestorID: "bob", ProjectID: "p1", Amount: 1000, Status: domain.InvestmentApproved},
		{ID: "i3", InvestorID: "carol", ProjectID: "p1", Amount: 5000, Status: domain.InvestmentRefunded},
		{ID: "i4", InvestorID: "dave", ProjectID: "p1", Amount: 700, Status: domain.InvestmentPending},
	}
	for _, inv := range investments {
		if err := store.CreateInvestment(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}
	uc := NewDefaultGovernanceUsecase(store, Repositories{
		Governance:  store,
		Investments: store,
		Projects:    store,
	}, nil)
	return store, uc
}

func TestCastVoteWeightsByInvestment(t *testing.T) {
	_, uc := newGovernance(t)
	ctx := context.Background()

	proposal, err := uc.CreateProposal(ctx, &governancedto.CreateProposalInput{ProjectID: "p1", Title: "Extend milestone", ClosesAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}

	votes := map[string]domain.VoteChoice{"alice": domain.VoteFor, "bob": "against", "dave": domain.VoteAbstain}
	for voter, choice := range votes {
		if _, err := uc.CastVote(ctx, &governancedto.CastVoteInput{ProposalID: proposal.ID, VoterID: voter, Choice: choice}); err != nil {
			t.Fatalf("vote %s: %v", voter, err)
		}
	}

	tally, err := uc.GetTally(ctx, proposal.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Tally{ProposalID: proposal.ID, For: 3000, Against: 1000, Abstain: 700, Voters: 3}
	if *tally != want {
		t.Errorf("tally = %+v, want %+v", *tally, want)
	}
}

func TestCastVoteRejections(t *testing.T) {
	store, uc := newGovernance(t)
	ctx := context.Background()

	open, err := uc.CreateProposal(ctx, &governancedto.CreateProposalInput{ProjectID: "p1", Title: "Open", ClosesAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	expired := &domain.Proposal{ID: "old", ProjectID: "p1", Title: "Old", Status: domain.ProposalOpen, ClosesAt: time.Now().Add(-time.Minute)}
	if err := store.CreateProposal(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.CastVote(ctx, &governancedto.CastVoteInput{ProposalID: open.ID, VoterID: "alice", Choice: domain.VoteFor}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		input governancedto.CastVoteInput
		want  error
	}{
		{"second vote", governancedto.CastVoteInput{ProposalID: open.ID, VoterID: "alice", Choice: domain.VoteAgainst}, domain.ErrAlreadyVoted},
		{"refunded investor", governancedto.CastVoteInput{ProposalID: open.ID, VoterID: "carol", Choice: domain.VoteFor}, domain.ErrNotAnInvestor},
		{"stranger", governancedto.CastVoteInput{ProposalID: open.ID, VoterID: "mallory", Choice: domain.VoteFor}, domain.ErrNotAnInvestor},
		{"closed", governancedto.CastVoteInput{ProposalID: "old", VoterID: "bob", Choice: domain.VoteFor}, domain.ErrProposalClosed},
		{"unknown proposal", governancedto.CastVoteInput{ProposalID: "none", VoterID: "bob", Choice: domain.VoteFor}, domain.ErrProposalNotFound},
		{"bad choice", governancedto.CastVoteInput{ProposalID: open.ID, VoterID: "bob", Choice: "MAYBE"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			if _, err := uc.CastVote(ctx, &input); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateProposalValidation(t *testing.T) {
	_, uc := newGovernance(t)
	ctx := context.Background()
	if _, err := uc.CreateProposal(ctx, &governancedto.CreateProposalInput{ProjectID: "p1", Title: " ", ClosesAt: time.Now().Add(time.Hour)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("blank title err = %v", err)
	}
	if _, err := uc.CreateProposal(ctx, &governancedto.CreateProposalInput{ProjectID: "p1", Title: "x", ClosesAt: time.Now().Add(-time.Hour)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("past close err = %v", err)
	}
	if _, err := uc.CreateProposal(ctx, &governancedto.CreateProposalInput{ProjectID: "ghost", Title: "x", ClosesAt: time.Now().Add(time.Hour)}); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Errorf("unknown project err = %v", err)
	}
}
