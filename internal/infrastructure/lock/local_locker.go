package lock

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

type userLock struct {
	ch   chan struct{}
	refs int
}

// LocalCartLocker serializes cart operations per user inside one process.
type LocalCartLocker struct {
	mu    sync.Mutex
	locks map[string]*userLock
	wait  time.Duration
}

func NewLocalCartLocker(wait time.Duration) *LocalCartLocker {
	return &LocalCartLocker{locks: make(map[string]*userLock), wait: wait}
}

func (l *LocalCartLocker) Lock(ctx context.Context, userID string) (func(), error) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ul.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-ul.ch
				l.drop(userID, ul)
			})
		}, nil
	case <-timer.C:
		l.drop(userID, ul)
		return nil, domain.ErrCartBusy
	case <-ctx.Done():
		l.drop(userID, ul)
		return nil, ctx.Err()
	}
}

func (l *LocalCartLocker) drop(userID string, ul *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
}
