// Package escrow is an in-process model of the escrow smart contract. It
// holds funds per escrow id and drives the CREATED -> ACTIVE ->
// RELEASED | REFUNDED | CANCELLED state machine, emitting the same events
// the deployed contract does.
package escrow

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PayoutHook is invoked after state has been written and before the payout is
// booked. Returning an error reverts the whole call.
type PayoutHook func(to common.Address, amount uint64) error

type Escrow struct {
	ID                  uint64
	Depositor           common.Address
	Beneficiary         common.Address
	Amount              uint64
	ReleaseConditions   string
	State               domain.ChainEscrowState
	DepositorApproved   bool
	BeneficiaryApproved bool
	CreatedAt           time.Time
	ActivatedAt         time.Time
}

type Config struct {
	Arbiter       common.Address
	RefundTimeout time.Duration
	Payout        PayoutHook
	Now           func() time.Time
}

type Ledger struct {
	mu       sync.Mutex
	escrows  map[uint64]*Escrow
	balances map[common.Address]uint64
	custody  uint64
	nextID   uint64
	block    uint64
	events   []domain.ChainEvent
	inPayout map[uint64]bool
	arbiter  common.Address
	timeout  time.Duration
	payout   PayoutHook
	now      func() time.Time
}

func NewLedger(cfg Config) *Ledger {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		escrows:  make(map[uint64]*Escrow),
		balances: make(map[common.Address]uint64),
		inPayout: make(map[uint64]bool),
		nextID:   1,
		arbiter:  cfg.Arbiter,
		timeout:  cfg.RefundTimeout,
		payout:   cfg.Payout,
		now:      now,
	}
}

func addChecked(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Fund credits an account; it stands in for a wallet receiving native currency.
func (l *Ledger) Fund(account common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, err := addChecked(l.balances[account], amount)
	if err != nil {
		return err
	}
	l.balances[account] = balance
	return nil
}

func (l *Ledger) BalanceOf(account common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

// ContractBalance is the total value held in custody.
func (l *Ledger) ContractBalance() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.custody
}

func (l *Ledger) CreateEscrow(caller, beneficiary common.Address, releaseConditions string, value uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if value == 0 {
		return 0, ErrZeroValue
	}
	if beneficiary == (common.Address{}) {
		return 0, ErrInvalidBeneficiary
	}
	if l.balances[caller] < value {
		return 0, ErrInsufficientFunds
	}
	custody, err := addChecked(l.custody, value)
	if err != nil {
		return 0, err
	}

	id := l.nextID
	l.nextID++
	l.balances[caller] -= value
	l.custody = custody
	l.escrows[id] = &Escrow{
		ID:                id,
		Depositor:         caller,
		Beneficiary:       beneficiary,
		Amount:            value,
		ReleaseConditions: releaseConditions,
		State:             domain.ChainEscrowCreated,
		CreatedAt:         l.now(),
	}

	l.emit(domain.ChainEvent{
		Type:        domain.ChainEventCreated,
		EscrowID:    id,
		Depositor:   caller.Hex(),
		Beneficiary: beneficiary.Hex(),
		Amount:      value,
	})
	return id, nil
}

// ActivateEscrow records the caller's approval. The escrow becomes ACTIVE once
// both depositor and beneficiary have approved; repeated approvals are no-ops.
func (l *Ledger) ActivateEscrow(caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.escrows[id]
	if !ok {
		return ErrEscrowNotFound
	}
	if caller != e.Depositor && caller != e.Beneficiary {
		return ErrUnauthorized
	}
	if e.State != domain.ChainEscrowCreated {
		return ErrInvalidState
	}

	var events []domain.ChainEvent
	// depositor == beneficiary approves both sides at once
	if caller == e.Depositor && !e.DepositorApproved {
		e.DepositorApproved = true
		events = append(events, domain.ChainEvent{Type: domain.ChainEventApproved, EscrowID: id, Party: caller.Hex()})
	}
	if caller == e.Beneficiary && !e.BeneficiaryApproved {
		e.BeneficiaryApproved = true
		if caller != e.Depositor {
			events = append(events, domain.ChainEvent{Type: domain.ChainEventApproved, EscrowID: id, Party: caller.Hex()})
		}
	}
	if len(events) == 0 {
		return nil
	}
	if e.DepositorApproved && e.BeneficiaryApproved {
		e.State = domain.ChainEscrowActive
		e.ActivatedAt = l.now()
		events = append(events, domain.ChainEvent{
			Type:        domain.ChainEventActivated,
			EscrowID:    id,
			Depositor:   e.Depositor.Hex(),
			Beneficiary: e.Beneficiary.Hex(),
			Amount:      e.Amount,
		})
	}
	l.emit(events...)
	return nil
}

func (l *Ledger) Release(caller common.Address, id uint64) error {
	return l.settle(id, domain.ChainEscrowReleased, func(e *Escrow) error {
		if caller != e.Depositor && !l.isArbiter(caller) {
			return ErrUnauthorized
		}
		if e.State != domain.ChainEscrowActive {
			return ErrInvalidState
		}
		return nil
	})
}

// Refund returns held funds to the depositor. The arbiter (dispute path) and
// the beneficiary may refund at any time; the depositor may refund before
// activation, or after the refund timeout has elapsed since activation.
func (l *Ledger) Refund(caller common.Address, id uint64) error {
	return l.settle(id, domain.ChainEscrowRefunded, func(e *Escrow) error {
		if e.State != domain.ChainEscrowCreated && e.State != domain.ChainEscrowActive {
			return ErrInvalidState
		}
		switch {
		case l.isArbiter(caller), caller == e.Beneficiary:
			return nil
		case caller == e.Depositor:
			if e.State == domain.ChainEscrowCreated {
				return nil
			}
			if l.timeout > 0 && !l.now().Before(e.ActivatedAt.Add(l.timeout)) {
				return nil
			}
		}
		return ErrUnauthorized
	})
}

// Cancel withdraws an escrow that was never activated.
func (l *Ledger) Cancel(caller common.Address, id uint64) error {
	return l.settle(id, domain.ChainEscrowCancelled, func(e *Escrow) error {
		if caller != e.Depositor {
			return ErrUnauthorized
		}
		if e.State != domain.ChainEscrowCreated {
			return ErrInvalidState
		}
		return nil
	})
}

func (l *Ledger) isArbiter(caller common.Address) bool {
	return l.arbiter != (common.Address{}) && caller == l.arbiter
}

// settle moves an escrow into a terminal state and pays out. State is written
// before the payout hook runs and the escrow stays guarded until the call
// finishes, so a nested call on the same escrow fails.
func (l *Ledger) settle(id uint64, target domain.ChainEscrowState, check func(e *Escrow) error) error {
	l.mu.Lock()
	e, ok := l.escrows[id]
	if !ok {
		l.mu.Unlock()
		return ErrEscrowNotFound
	}
	if l.inPayout[id] {
		l.mu.Unlock()
		return ErrReentrantCall
	}
	if err := check(e); err != nil {
		l.mu.Unlock()
		return err
	}

	prev := e.State
	to := e.Depositor
	if target == domain.ChainEscrowReleased {
		to = e.Beneficiary
	}
	e.State = target
	l.custody -= e.Amount
	l.inPayout[id] = true
	l.mu.Unlock()

	var hookErr error
	if l.payout != nil {
		hookErr = l.payout(to, e.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inPayout, id)

	if hookErr == nil {
		var balance uint64
		balance, hookErr = addChecked(l.balances[to], e.Amount)
		if hookErr == nil {
			l.balances[to] = balance
		}
	}
	if hookErr != nil {
		e.State = prev
		l.custody += e.Amount
		return hookErr
	}

	eventType := map[domain.ChainEscrowState]domain.ChainEventType{
		domain.ChainEscrowReleased:  domain.ChainEventReleased,
		domain.ChainEscrowRefunded:  domain.ChainEventRefunded,
		domain.ChainEscrowCancelled: domain.ChainEventCancelled,
	}[target]
	l.emit(domain.ChainEvent{
		Type:        eventType,
		EscrowID:    id,
		Depositor:   e.Depositor.Hex(),
		Beneficiary: e.Beneficiary.Hex(),
		Amount:      e.Amount,
	})
	return nil
}

func (l *Ledger) GetEscrow(_ context.Context, id uint64) (*domain.ChainEscrow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.escrows[id]
	if !ok {
		return nil, ErrEscrowNotFound
	}
	return &domain.ChainEscrow{
		ID:                  e.ID,
		Depositor:           e.Depositor.Hex(),
		Beneficiary:         e.Beneficiary.Hex(),
		Amount:              e.Amount,
		ReleaseConditions:   e.ReleaseConditions,
		State:               e.State,
		DepositorApproved:   e.DepositorApproved,
		BeneficiaryApproved: e.BeneficiaryApproved,
	}, nil
}

// FetchEvents returns every event mined at or after fromBlock.
func (l *Ledger) FetchEvents(_ context.Context, fromBlock uint64) ([]domain.ChainEvent, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []domain.ChainEvent
	for _, ev := range l.events {
		if ev.BlockNumber >= fromBlock {
			out = append(out, ev)
		}
	}
	next := l.block + 1
	if fromBlock > next {
		next = fromBlock
	}
	return out, next, nil
}

// emit mines one block holding events; the caller holds l.mu.
func (l *Ledger) emit(events ...domain.ChainEvent) {
	l.block++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], l.block)
	txHash := crypto.Keccak256Hash([]byte("escrow-ledger"), buf[:]).Hex()
	for i := range events {
		events[i].BlockNumber = l.block
		events[i].LogIndex = uint(i)
		events[i].TxHash = txHash
		l.events = append(l.events, events[i])
	}
}
