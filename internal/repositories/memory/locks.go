package memory

import (
	"context"
	"sync"
)

// accountLocks hands out one exclusive slot per account. Waiting honours ctx.
type accountLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newAccountLocks() *accountLocks {
	return &accountLocks{slots: make(map[string]chan struct{})}
}

func (l *accountLocks) slot(accountID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[accountID] = ch
	}
	return ch
}

func (l *accountLocks) acquire(ctx context.Context, accountID string) error {
	select {
	case l.slot(accountID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *accountLocks) release(accountID string) {
	<-l.slot(accountID)
}
