package escrow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/ethereum/go-ethereum/common"
)

var (
	depositor   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	beneficiary = common.HexToAddress("0x2000000000000000000000000000000000000002")
	arbiter     = common.HexToAddress("0x3000000000000000000000000000000000000003")
	stranger    = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

func newFundedLedger(t *testing.T, cfg Config) *Ledger {
	t.Helper()
	l := NewLedger(cfg)
	if err := l.Fund(depositor, 1_000_000); err != nil {
		t.Fatalf("fund: %v", err)
	}
	return l
}

func activeEscrow(t *testing.T, l *Ledger, amount uint64) uint64 {
	t.Helper()
	id, err := l.CreateEscrow(depositor, beneficiary, "milestone 1", amount)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := l.ActivateEscrow(depositor, id); err != nil {
		t.Fatalf("activate depositor: %v", err)
	}
	if err := l.ActivateEscrow(beneficiary, id); err != nil {
		t.Fatalf("activate beneficiary: %v", err)
	}
	return id
}

func TestCreateEscrowValidation(t *testing.T) {
	l := newFundedLedger(t, Config{})

	if _, err := l.CreateEscrow(depositor, beneficiary, "", 0); !errors.Is(err, ErrZeroValue) {
		t.Fatalf("expected ErrZeroValue, got %v", err)
	}
	if _, err := l.CreateEscrow(depositor, common.Address{}, "", 10); !errors.Is(err, ErrInvalidBeneficiary) {
		t.Fatalf("expected ErrInvalidBeneficiary, got %v", err)
	}
	if _, err := l.CreateEscrow(stranger, beneficiary, "", 10); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if l.ContractBalance() != 0 {
		t.Fatalf("failed creates moved funds")
	}
}

func TestCreateEscrowHoldsFundsAndEmits(t *testing.T) {
	l := newFundedLedger(t, Config{})

	id, err := l.CreateEscrow(depositor, beneficiary, "milestone 1", 2500)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.ContractBalance() != 2500 || l.BalanceOf(depositor) != 1_000_000-2500 {
		t.Fatalf("funds not held by contract")
	}
	got, err := l.GetEscrow(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.ChainEscrowCreated || got.Amount != 2500 || got.Depositor != depositor.Hex() {
		t.Fatalf("unexpected escrow: %+v", got)
	}

	events, next, _ := l.FetchEvents(context.Background(), 0)
	if len(events) != 1 || events[0].Type != domain.ChainEventCreated || events[0].EscrowID != id {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Amount != 2500 || events[0].Beneficiary != beneficiary.Hex() {
		t.Fatalf("event payload mismatch: %+v", events[0])
	}
	if next != events[0].BlockNumber+1 {
		t.Fatalf("next block %d, want %d", next, events[0].BlockNumber+1)
	}
}

func TestActivateRequiresBothParties(t *testing.T) {
	l := newFundedLedger(t, Config{})
	id, _ := l.CreateEscrow(depositor, beneficiary, "", 100)

	if err := l.ActivateEscrow(stranger, id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := l.ActivateEscrow(depositor, id); err != nil {
		t.Fatal(err)
	}
	// second approval from the same party is not counted twice
	if err := l.ActivateEscrow(depositor, id); err != nil {
		t.Fatal(err)
	}
	e, _ := l.GetEscrow(context.Background(), id)
	if e.State != domain.ChainEscrowCreated {
		t.Fatalf("escrow activated with one approval")
	}
	if err := l.ActivateEscrow(beneficiary, id); err != nil {
		t.Fatal(err)
	}
	e, _ = l.GetEscrow(context.Background(), id)
	if e.State != domain.ChainEscrowActive {
		t.Fatalf("escrow not active after both approvals: %s", e.State)
	}
	if err := l.ActivateEscrow(beneficiary, id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on active escrow, got %v", err)
	}
}

func TestReleaseOnlyFromActive(t *testing.T) {
	l := newFundedLedger(t, Config{Arbiter: arbiter})

	created, _ := l.CreateEscrow(depositor, beneficiary, "", 100)
	if err := l.Release(depositor, created); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("release from CREATED: %v", err)
	}

	released := activeEscrow(t, l, 100)
	if err := l.Release(depositor, released); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := l.Release(depositor, released); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("release from RELEASED: %v", err)
	}

	refunded := activeEscrow(t, l, 100)
	if err := l.Refund(arbiter, refunded); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if err := l.Release(depositor, refunded); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("release from REFUNDED: %v", err)
	}

	cancelled, _ := l.CreateEscrow(depositor, beneficiary, "", 100)
	if err := l.Cancel(depositor, cancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := l.Release(depositor, cancelled); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("release from CANCELLED: %v", err)
	}

	// only the successful release paid the beneficiary
	if got := l.BalanceOf(beneficiary); got != 100 {
		t.Fatalf("beneficiary balance %d, want 100", got)
	}
	if got := l.ContractBalance(); got != 100 {
		t.Fatalf("custody %d, want 100 (the CREATED escrow)", got)
	}
}

func TestReleaseAuthorization(t *testing.T) {
	l := newFundedLedger(t, Config{Arbiter: arbiter})
	id := activeEscrow(t, l, 300)

	if err := l.Release(beneficiary, id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("beneficiary release: %v", err)
	}
	if err := l.Release(arbiter, id); err != nil {
		t.Fatalf("arbiter release: %v", err)
	}
}

func TestRefundTimeoutPath(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newFundedLedger(t, Config{RefundTimeout: time.Hour, Now: func() time.Time { return now }})
	id := activeEscrow(t, l, 500)

	if err := l.Refund(depositor, id); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("early depositor refund: %v", err)
	}
	now = now.Add(time.Hour)
	if err := l.Refund(depositor, id); err != nil {
		t.Fatalf("refund after timeout: %v", err)
	}
	if got := l.BalanceOf(depositor); got != 1_000_000 {
		t.Fatalf("depositor balance %d after refund", got)
	}
	if err := l.Refund(depositor, id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double refund: %v", err)
	}
}

func TestReentrantPayoutIsRejected(t *testing.T) {
	var l *Ledger
	var nestedErr error
	l = newFundedLedger(t, Config{Payout: func(to common.Address, amount uint64) error {
		nestedErr = l.Release(depositor, 1)
		return nil
	}})
	id := activeEscrow(t, l, 400)
	if id != 1 {
		t.Fatalf("unexpected id %d", id)
	}
	if err := l.Release(depositor, id); err != nil {
		t.Fatalf("release: %v", err)
	}
	if !errors.Is(nestedErr, ErrReentrantCall) {
		t.Fatalf("nested release: %v", nestedErr)
	}
	if got := l.BalanceOf(beneficiary); got != 400 {
		t.Fatalf("beneficiary paid %d, want exactly 400", got)
	}
}

func TestFailedPayoutReverts(t *testing.T) {
	l := newFundedLedger(t, Config{Payout: func(common.Address, uint64) error {
		return errors.New("transfer rejected")
	}})
	id := activeEscrow(t, l, 700)

	if err := l.Release(depositor, id); err == nil {
		t.Fatal("expected payout error")
	}
	e, _ := l.GetEscrow(context.Background(), id)
	if e.State != domain.ChainEscrowActive {
		t.Fatalf("state not reverted: %s", e.State)
	}
	if l.ContractBalance() != 700 || l.BalanceOf(beneficiary) != 0 {
		t.Fatal("funds moved despite revert")
	}
}

func TestGetEscrowUnknown(t *testing.T) {
	l := NewLedger(Config{})
	if _, err := l.GetEscrow(context.Background(), 42); !errors.Is(err, domain.ErrEscrowNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFundOverflow(t *testing.T) {
	l := NewLedger(Config{})
	if err := l.Fund(depositor, ^uint64(0)); err != nil {
		t.Fatal(err)
	}
	if err := l.Fund(depositor, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}
