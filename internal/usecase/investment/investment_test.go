package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/memory"
	investmentdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/investment"
	escrowusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/escrow"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingPublisher) PublishEvent(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// failingEscrows rejects every insert so the surrounding transaction has to roll back.
type failingEscrows struct {
	*memory.Store
}

func (failingEscrows) CreateEscrow(context.Context, *domain.EscrowContract) error {
	return errors.New("escrow table unavailable")
}

type fixture struct {
	store     *memory.Store
	publisher *recordingPublisher
	uc        *DefaultInvestmentUsecase
	seq       int
}

func newFixture(t *testing.T, failEscrows bool, caps map[string]int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	var escrows domain.EscrowRepository = store
	if failEscrows {
		escrows = failingEscrows{store}
	}
	pub := &recordingPublisher{}
	escrowUC := escrowusecase.NewDefaultEscrowUsecase(store, escrowusecase.Repositories{
		Users:       store,
		Escrows:     escrows,
		Investments: store,
		Payments:    store,
		Projects:    store,
		Cursors:     store,
	}, nil, nil, pub, nil, 0)
	uc, err := NewDefaultInvestmentUsecase(store, Repositories{
		Users:       store,
		Projects:    store,
		Investments: store,
		Payments:    store,
		Escrows:     escrows,
	}, escrowUC, pub, nil, Settings{Currency: "KES", TransactionCaps: caps})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{store: store, publisher: pub, uc: uc}
}

func (f *fixture) seed(t *testing.T, band string, status domain.ProjectStatus) (*domain.User, *domain.Project) {
	t.Helper()
	ctx := context.Background()
	f.seq++
	fundraiser, err := f.uc.RegisterUser(ctx, &domain.User{Email: fmt.Sprintf("fund%d@example.com", f.seq), Role: domain.RoleFundraiser})
	if err != nil {
		t.Fatalf("register fundraiser: %v", err)
	}
	investor, err := f.uc.RegisterUser(ctx, &domain.User{Email: fmt.Sprintf("inv%d@example.com", f.seq), TrustBand: band})
	if err != nil {
		t.Fatalf("register investor: %v", err)
	}
	max := int64(500000)
	project, err := f.uc.CreateProject(ctx, &domain.Project{
		FundraiserID:  fundraiser.ID,
		Title:         "Solar microgrid",
		MinInvestment: 10000,
		MaxInvestment: &max,
		Status:        status,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return investor, project
}

func (f *fixture) currentAmount(t *testing.T, projectID string) int64 {
	t.Helper()
	project, err := f.store.GetProjectByID(context.Background(), projectID)
	if err != nil {
		t.Fatal(err)
	}
	return project.CurrentAmount
}

func TestCreateInvestmentClampsToProjectMaximum(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "A", domain.ProjectActive)

	out, err := f.uc.CreateInvestment(context.Background(), &investmentdto.CreateInvestmentInput{
		InvestorID: investor.ID,
		ProjectID:  project.ID,
		Amount:     1000000,
		Status:     domain.InvestmentEscrowed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Investment.Amount != 500000 || !out.Clamped || out.RequestedAmount != 1000000 {
		t.Errorf("amount = %d clamped = %v requested = %d", out.Investment.Amount, out.Clamped, out.RequestedAmount)
	}
	if len(out.Investment.TransactionHash) != 64 {
		t.Errorf("transaction hash %q is not 64 hex chars", out.Investment.TransactionHash)
	}
	if out.Payment == nil || out.Payment.Amount != 500000 || out.Payment.Status != domain.PaymentCompleted || out.Payment.Currency != "KES" {
		t.Errorf("payment = %+v", out.Payment)
	}
	if out.Escrow == nil || out.Escrow.Amount != 500000 || out.Escrow.Status != domain.EscrowActive {
		t.Errorf("escrow = %+v", out.Escrow)
	}
	if got := f.currentAmount(t, project.ID); got != 500000 {
		t.Errorf("current amount = %d, want 500000", got)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != "investment.created" {
		t.Errorf("published %+v", f.publisher.events)
	}
}

func TestCreateInvestmentRaisesToMinimum(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "A", domain.ProjectApproved)

	out, err := f.uc.CreateInvestment(context.Background(), &investmentdto.CreateInvestmentInput{
		InvestorID: investor.ID, ProjectID: project.ID, Amount: 5000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Investment.Amount != 10000 || out.Investment.Status != domain.InvestmentPending {
		t.Errorf("investment = %+v", out.Investment)
	}
	if out.Payment != nil || out.Escrow != nil {
		t.Error("pending investment must not carry payment or escrow")
	}
	if got := f.currentAmount(t, project.ID); got != 10000 {
		t.Errorf("current amount = %d, want 10000", got)
	}
}

func TestCreateInvestmentRejectsDuplicate(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "A", domain.ProjectActive)
	ctx := context.Background()
	input := investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID, Amount: 20000, Status: domain.InvestmentApproved}

	first := input
	if _, err := f.uc.CreateInvestment(ctx, &first); err != nil {
		t.Fatalf("first: %v", err)
	}
	second := input
	if _, err := f.uc.CreateInvestment(ctx, &second); !errors.Is(err, domain.ErrDuplicateInvestment) {
		t.Fatalf("second err = %v, want ErrDuplicateInvestment", err)
	}
	if got := f.currentAmount(t, project.ID); got != 20000 {
		t.Errorf("current amount = %d, want 20000", got)
	}
	if n := len(f.store.Payments(ctx)); n != 1 {
		t.Errorf("payments = %d, want 1", n)
	}
}

func TestCreateInvestmentRequiresInvestorRole(t *testing.T) {
	f := newFixture(t, false, nil)
	_, project := f.seed(t, "A", domain.ProjectActive)
	ctx := context.Background()

	for _, role := range []domain.UserRole{domain.RoleFundraiser, domain.RoleAdmin} {
		user, err := f.uc.RegisterUser(ctx, &domain.User{Email: string(role) + "@example.com", Role: role, TrustBand: "A"})
		if err != nil {
			t.Fatal(err)
		}
		_, err = f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
			InvestorID: user.ID, ProjectID: project.ID, Amount: 20000, Status: domain.InvestmentEscrowed,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", role, err)
		}
	}
	if got := f.currentAmount(t, project.ID); got != 0 {
		t.Errorf("current amount = %d, want 0", got)
	}
}

func TestCreateInvestmentConcurrentInvestorsKeepTotal(t *testing.T) {
	f := newFixture(t, false, nil)
	_, project := f.seed(t, "A", domain.ProjectActive)
	ctx := context.Background()

	const n = 16
	investors := make([]string, n)
	for i := range investors {
		u, err := f.uc.RegisterUser(ctx, &domain.User{Email: fmt.Sprintf("concurrent%d@example.com", i), TrustBand: "A"})
		if err != nil {
			t.Fatal(err)
		}
		investors[i] = u.ID
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
		errs  []error
	)
	for i, investorID := range investors {
		wg.Add(1)
		go func(i int, investorID string) {
			defer wg.Done()
			out, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
				InvestorID: investorID,
				ProjectID:  project.ID,
				Amount:     int64(5000 + i*1000),
				Status:     domain.InvestmentEscrowed,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			total += out.Investment.Amount
		}(i, investorID)
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("concurrent creates failed: %v", errs)
	}
	if got := f.currentAmount(t, project.ID); got != total {
		t.Errorf("current amount = %d, want %d", got, total)
	}
	list, err := f.store.ListProjectInvestments(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != n {
		t.Errorf("investments = %d, want %d", len(list), n)
	}
}

func TestCreateInvestmentConcurrentRetriesCreateOneRow(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "A", domain.ProjectActive)
	ctx := context.Background()

	const n = 16
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
				InvestorID: investor.ID,
				ProjectID:  project.ID,
				Amount:     20000,
				Status:     domain.InvestmentEscrowed,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, duplicates int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateInvestment):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || duplicates != n-1 {
		t.Errorf("succeeded = %d duplicates = %d, want 1 and %d", ok, duplicates, n-1)
	}
	if got := f.currentAmount(t, project.ID); got != 20000 {
		t.Errorf("current amount = %d, want 20000", got)
	}
	if p := len(f.store.Payments(ctx)); p != 1 {
		t.Errorf("payments = %d, want 1", p)
	}
}

func TestCreateInvestmentRollsBackWhenEscrowFails(t *testing.T) {
	f := newFixture(t, true, nil)
	investor, project := f.seed(t, "A", domain.ProjectActive)
	ctx := context.Background()

	_, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
		InvestorID: investor.ID, ProjectID: project.ID, Amount: 20000, Status: domain.InvestmentEscrowed,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := f.currentAmount(t, project.ID); got != 0 {
		t.Errorf("current amount = %d, want 0", got)
	}
	if _, err := f.store.FindInvestment(ctx, investor.ID, project.ID); !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Errorf("investment survived rollback: %v", err)
	}
	if n := len(f.store.Payments(ctx)); n != 0 {
		t.Errorf("payments = %d, want 0", n)
	}
	if len(f.publisher.events) != 0 {
		t.Errorf("events published for a rolled back investment: %+v", f.publisher.events)
	}
}

func TestCreateInvestmentValidation(t *testing.T) {
	f := newFixture(t, false, map[string]int64{"T2": 15000})
	investor, project := f.seed(t, "C", domain.ProjectActive)
	_, draft := f.seed(t, "A", domain.ProjectDraft)
	ctx := context.Background()

	cases := []struct {
		name  string
		input investmentdto.CreateInvestmentInput
		want  error
	}{
		{"zero amount", investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID}, domain.ErrInvalidAmount},
		{"released status", investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID, Amount: 100, Status: domain.InvestmentReleased}, domain.ErrInvalidStatus},
		{"unknown investor", investmentdto.CreateInvestmentInput{InvestorID: "ghost", ProjectID: project.ID, Amount: 100}, domain.ErrInvestorNotFound},
		{"unknown project", investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: "ghost", Amount: 100}, domain.ErrProjectNotFound},
		{"draft project", investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: draft.ID, Amount: 100}, domain.ErrProjectNotEligible},
		{"band cap", investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID, Amount: 20000}, domain.ErrTransactionCapExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			if _, err := f.uc.CreateInvestment(ctx, &input); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// within the T2 cap
	if _, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID, Amount: 15000}); err != nil {
		t.Fatalf("create within cap: %v", err)
	}
}

func TestTransitionInvestmentForward(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "B", domain.ProjectActive)
	ctx := context.Background()

	created, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{InvestorID: investor.ID, ProjectID: project.ID, Amount: 30000})
	if err != nil {
		t.Fatal(err)
	}
	id := created.Investment.ID

	approved, err := f.uc.TransitionInvestment(ctx, &investmentdto.TransitionInvestmentInput{InvestmentID: id, TargetStatus: domain.InvestmentApproved})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Payment == nil || approved.Payment.Amount != 30000 {
		t.Fatalf("approve payment = %+v", approved.Payment)
	}

	escrowed, err := f.uc.TransitionInvestment(ctx, &investmentdto.TransitionInvestmentInput{InvestmentID: id, TargetStatus: domain.InvestmentEscrowed})
	if err != nil {
		t.Fatalf("escrow: %v", err)
	}
	if escrowed.Escrow == nil || escrowed.Payment == nil || escrowed.Payment.ID != approved.Payment.ID {
		t.Errorf("escrowed output = %+v", escrowed)
	}

	for _, target := range []domain.InvestmentStatus{domain.InvestmentReleased, domain.InvestmentRefunded, domain.InvestmentCancelled, domain.InvestmentPending} {
		_, err := f.uc.TransitionInvestment(ctx, &investmentdto.TransitionInvestmentInput{InvestmentID: id, TargetStatus: target})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("-> %s err = %v, want ErrInvalidTransition", target, err)
		}
	}

	full, err := f.uc.GetInvestment(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if full.Investment.Status != domain.InvestmentEscrowed || full.Escrow == nil || full.Payment == nil {
		t.Errorf("get investment = %+v", full)
	}
	if got := f.currentAmount(t, project.ID); got != 30000 {
		t.Errorf("current amount = %d, want 30000", got)
	}
}

func TestTransitionInvestmentCancelRefundsPayment(t *testing.T) {
	f := newFixture(t, false, nil)
	investor, project := f.seed(t, "B", domain.ProjectActive)
	ctx := context.Background()

	created, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
		InvestorID: investor.ID, ProjectID: project.ID, Amount: 30000, Status: domain.InvestmentApproved,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.uc.TransitionInvestment(ctx, &investmentdto.TransitionInvestmentInput{InvestmentID: created.Investment.ID, TargetStatus: domain.InvestmentCancelled})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if out.Investment.Status != domain.InvestmentCancelled || out.Payment.Status != domain.PaymentRefunded {
		t.Errorf("cancel output = %+v payment = %+v", out.Investment, out.Payment)
	}
	if got := f.currentAmount(t, project.ID); got != 0 {
		t.Errorf("current amount = %d, want 0", got)
	}
}

func TestRegisterUserNormalizesTrustBand(t *testing.T) {
	f := newFixture(t, false, nil)
	ctx := context.Background()
	cases := map[string]string{"T4": "A", " b ": "B", "t1": "D", "": "D", "bogus": "D"}
	for in, want := range cases {
		user, err := f.uc.RegisterUser(ctx, &domain.User{Email: "band" + in + "@example.com", TrustBand: in})
		if err != nil {
			t.Fatalf("register %q: %v", in, err)
		}
		if user.TrustBand != want {
			t.Errorf("band %q stored as %q, want %q", in, user.TrustBand, want)
		}
	}
	if _, err := f.uc.RegisterUser(ctx, &domain.User{Email: "root@example.com", Role: "ROOT"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown role err = %v", err)
	}
	if _, err := f.uc.RegisterUser(ctx, &domain.User{Email: "bandT4@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate email err = %v", err)
	}
}

func TestListProjectsPaging(t *testing.T) {
	f := newFixture(t, false, nil)
	f.seed(t, "A", domain.ProjectActive)
	f.seed(t, "A", domain.ProjectDraft)

	out, err := f.uc.ListProjects(context.Background(), &investmentdto.ListProjectsInput{Statuses: []domain.ProjectStatus{domain.ProjectActive}})
	if err != nil {
		t.Fatal(err)
	}
	if out.Total != 1 || len(out.Projects) != 1 {
		t.Errorf("total = %d projects = %d", out.Total, len(out.Projects))
	}
}
