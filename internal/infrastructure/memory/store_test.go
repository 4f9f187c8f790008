package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func seedProject(t *testing.T, s *Store) {
	t.Helper()
	err := s.CreateProject(context.Background(), &domain.Project{
		ID:        "p1",
		Title:     "Solar",
		Status:    domain.ProjectActive,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	s := NewStore()
	seedProject(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.AddToCurrentAmount(ctx, "p1", 500); err != nil {
			return err
		}
		if err := s.CreateInvestment(ctx, &domain.Investment{ID: "i1", InvestorID: "u1", ProjectID: "p1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	project, _ := s.GetProjectByID(ctx, "p1")
	if project.CurrentAmount != 0 {
		t.Errorf("current amount = %d, want 0 after rollback", project.CurrentAmount)
	}
	if _, err := s.GetInvestmentByID(ctx, "i1"); !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Errorf("investment survived rollback: %v", err)
	}
}

func TestWithinTransactionNestedJoinsOuter(t *testing.T) {
	s := NewStore()
	seedProject(t, s)
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.AddToCurrentAmount(ctx, "p1", 10)
		})
	})
	if err != nil {
		t.Fatalf("nested tx: %v", err)
	}
	project, _ := s.GetProjectByID(ctx, "p1")
	if project.CurrentAmount != 10 {
		t.Errorf("current amount = %d, want 10", project.CurrentAmount)
	}
}

func TestCurrentAmountFloorsAtZero(t *testing.T) {
	s := NewStore()
	seedProject(t, s)
	ctx := context.Background()
	if err := s.AddToCurrentAmount(ctx, "p1", -100); err != nil {
		t.Fatalf("add: %v", err)
	}
	project, _ := s.GetProjectByID(ctx, "p1")
	if project.CurrentAmount != 0 {
		t.Errorf("current amount = %d, want 0", project.CurrentAmount)
	}
}

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	inv := &domain.Investment{ID: "i1", InvestorID: "u1", ProjectID: "p1"}
	if err := s.CreateInvestment(ctx, inv); err != nil {
		t.Fatalf("first investment: %v", err)
	}
	dup := &domain.Investment{ID: "i2", InvestorID: "u1", ProjectID: "p1"}
	if err := s.CreateInvestment(ctx, dup); !errors.Is(err, domain.ErrDuplicateInvestment) {
		t.Errorf("duplicate investment err = %v", err)
	}

	if err := s.CreateEscrow(ctx, &domain.EscrowContract{ID: "e1", InvestmentID: "i1"}); err != nil {
		t.Fatalf("escrow: %v", err)
	}
	if err := s.CreateEscrow(ctx, &domain.EscrowContract{ID: "e2", InvestmentID: "i1"}); !errors.Is(err, domain.ErrEscrowAlreadyExists) {
		t.Errorf("second escrow err = %v", err)
	}

	if err := s.BindChainEscrow(ctx, "e1", 7); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := s.BindChainEscrow(ctx, "e1", 8); !errors.Is(err, domain.ErrEscrowAlreadyBound) {
		t.Errorf("rebind err = %v", err)
	}

	vote := &domain.Vote{ProposalID: "pr", VoterID: "u1", Choice: domain.VoteFor}
	if err := s.CreateVote(ctx, vote); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := s.CreateVote(ctx, vote); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Errorf("second vote err = %v", err)
	}
}

func TestMarkEventProcessedIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	first, err := s.MarkEventProcessed(ctx, "0xabc", 1)
	if err != nil || !first {
		t.Fatalf("first mark = %v, %v", first, err)
	}
	again, err := s.MarkEventProcessed(ctx, "0xabc", 1)
	if err != nil || again {
		t.Fatalf("second mark = %v, %v", again, err)
	}
	other, _ := s.MarkEventProcessed(ctx, "0xabc", 2)
	if !other {
		t.Error("different log index treated as duplicate")
	}
}

func TestCartUpsertKeepsAddedAt(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.UpsertItem(ctx, "u1", domain.CartItem{ProjectID: "p1", Quantity: 1, UnitPrice: 100, AddedAt: added}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertItem(ctx, "u1", domain.CartItem{ProjectID: "p1", Quantity: 3, UnitPrice: 100}); err != nil {
		t.Fatal(err)
	}
	cart, _ := s.GetCart(ctx, "u1")
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 || !cart.Items[0].AddedAt.Equal(added) {
		t.Errorf("cart = %+v", cart.Items)
	}
	if err := s.DeleteItem(ctx, "u1", "missing"); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Errorf("delete missing err = %v", err)
	}
}
