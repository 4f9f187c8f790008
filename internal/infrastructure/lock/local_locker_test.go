package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func TestLocalLockerSerializesSameUser(t *testing.T) {
	l := NewLocalCartLocker(time.Second)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "u1")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
	if len(l.locks) != 0 {
		t.Errorf("leaked %d lock entries", len(l.locks))
	}
}

func TestLocalLockerTimesOut(t *testing.T) {
	l := NewLocalCartLocker(20 * time.Millisecond)
	ctx := context.Background()
	unlock, err := l.Lock(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	if _, err := l.Lock(ctx, "u1"); !errors.Is(err, domain.ErrCartBusy) {
		t.Errorf("err = %v, want ErrCartBusy", err)
	}
	other, err := l.Lock(ctx, "u2")
	if err != nil {
		t.Fatalf("other user blocked: %v", err)
	}
	other()
}

func TestLocalLockerUnlockIsIdempotent(t *testing.T) {
	l := NewLocalCartLocker(time.Second)
	unlock, err := l.Lock(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	unlock()
	unlock()
	again, err := l.Lock(context.Background(), "u1")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}
