package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/jaevor/go-nanoid"
)

// SimulatedGateway approves every charge unless a failure is queued. It is the
// gateway for local runs and tests.
type SimulatedGateway struct {
	mu       sync.Mutex
	newID    func() string
	charges  map[string]int64
	refunds  map[string]int64
	failNext error
}

func NewSimulatedGateway() (*SimulatedGateway, error) {
	newID, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &SimulatedGateway{
		newID:   newID,
		charges: make(map[string]int64),
		refunds: make(map[string]int64),
	}, nil
}

// FailNextCharge makes the next Charge return err.
func (g *SimulatedGateway) FailNextCharge(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = err
}

func (g *SimulatedGateway) Charge(_ context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNext != nil {
		err := g.failNext
		g.failNext = nil
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", domain.ErrPaymentFailed)
	}
	id := "sim_" + g.newID()
	g.charges[id] = req.Amount
	return &domain.ChargeResult{
		TransactionID: id,
		RawResponse:   fmt.Sprintf(`{"transaction_id":%q,"status":"succeeded"}`, id),
	}, nil
}

func (g *SimulatedGateway) Refund(_ context.Context, transactionID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	charged, ok := g.charges[transactionID]
	if !ok {
		return fmt.Errorf("%w: unknown transaction %s", domain.ErrPaymentFailed, transactionID)
	}
	if g.refunds[transactionID]+amount > charged {
		return fmt.Errorf("%w: refund exceeds charge", domain.ErrPaymentFailed)
	}
	g.refunds[transactionID] += amount
	return nil
}

// Refunded reports the total refunded against a transaction.
func (g *SimulatedGateway) Refunded(transactionID string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunds[transactionID]
}

// Charges reports how many charges have succeeded.
func (g *SimulatedGateway) Charges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

// TotalRefunded sums refunds across all transactions.
func (g *SimulatedGateway) TotalRefunded() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var total int64
	for _, amount := range g.refunds {
		total += amount
	}
	return total
}
