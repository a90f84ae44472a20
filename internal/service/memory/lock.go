package memory

import (
	"context"
	"sync"

	"github.com/sandevgo/barista/internal/core"
	"golang.org/x/sync/semaphore"
)

// Locker hands out one exclusive lock per user so that the
// fetch-invoke-persist cycle on a history is atomic. Waiting honors ctx.
type Locker struct {
	mu    sync.Mutex
	locks map[core.UserID]*semaphore.Weighted
}

func NewLocker() *Locker {
	return &Locker{
		locks: make(map[core.UserID]*semaphore.Weighted),
	}
}

func (l *Locker) Lock(ctx context.Context, userID core.UserID) (func(), error) {
	sem := l.get(userID)
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() { sem.Release(1) })
	}, nil
}

func (l *Locker) get(userID core.UserID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[userID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[userID] = sem
	}
	return sem
}
