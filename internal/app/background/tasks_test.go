package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/memory"
	escrowdto "github.com/LavaJover/trust-marketplace-service/internal/usecase/dto/escrow"
)

type countingSyncer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *countingSyncer) SyncChainEvents(context.Context) (*escrowdto.SyncOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return &escrowdto.SyncOutput{NextBlock: uint64(s.calls)}, s.err
}

func (s *countingSyncer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type healthRecorder struct {
	mu   sync.Mutex
	last map[string]bool
}

func (h *healthRecorder) report(component string, serving bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		h.last = make(map[string]bool)
	}
	h.last[component] = serving
}

func (h *healthRecorder) get(component string) (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.last[component]
	return v, ok
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestChainSyncRunsRepeatedly(t *testing.T) {
	syncer := &countingSyncer{}
	health := &healthRecorder{}
	bt, err := NewBackgroundTasks(syncer, nil, nil, health.report, Config{
		SyncInterval:    20 * time.Millisecond,
		HealthComponent: "chain-sync",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := bt.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer bt.Stop()

	waitFor(t, func() bool { return syncer.count() >= 3 })
	if serving, ok := health.get("chain-sync"); !ok || !serving {
		t.Errorf("health = %v/%v, want serving", serving, ok)
	}
}

func TestChainSyncFailureReportsUnhealthy(t *testing.T) {
	syncer := &countingSyncer{err: errors.New("rpc down")}
	health := &healthRecorder{}
	bt, err := NewBackgroundTasks(syncer, nil, nil, health.report, Config{
		SyncInterval:    20 * time.Millisecond,
		HealthComponent: "chain-sync",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := bt.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer bt.Stop()

	waitFor(t, func() bool {
		serving, ok := health.get("chain-sync")
		return ok && !serving
	})
}

type chanSubscriber struct {
	ch chan domain.Message
}

func (s *chanSubscriber) Subscribe(ctx context.Context, _, _ string) (<-chan domain.Message, error) {
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-s.ch:
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func TestAuditConsumerStopsWithTasks(t *testing.T) {
	store := memory.NewStore()
	sub := &chanSubscriber{ch: make(chan domain.Message)}
	bt, err := NewBackgroundTasks(&countingSyncer{}, sub, store, nil, Config{
		SyncInterval: time.Hour,
		AuditGroupID: "test",
		AuditTopics:  []string{domain.TopicOrderEvents},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := bt.StartAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	sub.ch <- domain.Message{Topic: domain.TopicOrderEvents, Value: []byte(`{"type":"order.paid","key":"o-1"}`)}
	waitFor(t, func() bool { return len(store.AuditRecords(context.Background())) == 1 })

	stopped := make(chan struct{})
	go func() {
		bt.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestNewBackgroundTasksRejectsZeroInterval(t *testing.T) {
	if _, err := NewBackgroundTasks(&countingSyncer{}, nil, nil, nil, Config{}); err == nil {
		t.Fatal("expected error")
	}
}
