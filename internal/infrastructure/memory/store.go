// Package memory is the in-process storage driver. Every repository port and
// the TxManager are served by one Store guarded by a single mutex; a failed
// unit of work restores the snapshot taken when it began.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

type txKey struct{}

type tables struct {
	users       map[string]domain.User
	projects    map[string]domain.Project
	investments map[string]domain.Investment
	payments    map[string]domain.Payment
	escrows     map[string]domain.EscrowContract
	cursors     map[string]uint64
	processed   map[string]struct{}
	carts       map[string]map[string]domain.CartItem
	orders      map[string]domain.Order
	proposals   map[string]domain.Proposal
	votes       map[string]map[string]domain.Vote
	audit       []domain.AuditRecord
}

func newTables() tables {
	return tables{
		users:       make(map[string]domain.User),
		projects:    make(map[string]domain.Project),
		investments: make(map[string]domain.Investment),
		payments:    make(map[string]domain.Payment),
		escrows:     make(map[string]domain.EscrowContract),
		cursors:     make(map[string]uint64),
		processed:   make(map[string]struct{}),
		carts:       make(map[string]map[string]domain.CartItem),
		orders:      make(map[string]domain.Order),
		proposals:   make(map[string]domain.Proposal),
		votes:       make(map[string]map[string]domain.Vote),
	}
}

func (t tables) clone() tables {
	c := tables{
		users:       maps.Clone(t.users),
		projects:    maps.Clone(t.projects),
		investments: maps.Clone(t.investments),
		payments:    maps.Clone(t.payments),
		escrows:     maps.Clone(t.escrows),
		cursors:     maps.Clone(t.cursors),
		processed:   maps.Clone(t.processed),
		carts:       make(map[string]map[string]domain.CartItem, len(t.carts)),
		orders:      maps.Clone(t.orders),
		proposals:   maps.Clone(t.proposals),
		votes:       make(map[string]map[string]domain.Vote, len(t.votes)),
		audit:       append([]domain.AuditRecord(nil), t.audit...),
	}
	for k, v := range t.carts {
		c.carts[k] = maps.Clone(v)
	}
	for k, v := range t.votes {
		c.votes[k] = maps.Clone(v)
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	t   tables
	now func() time.Time
}

func NewStore() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// WithinTransaction holds the store lock for the whole of fn. Nested calls
// with a ctx derived from fn's ctx join the running unit of work.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.t = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock acquires the store mutex unless ctx already owns it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
