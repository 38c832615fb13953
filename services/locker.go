package services

import (
	"context"
	"fmt"
	"sync"
)

// TableLocker serializes work on a table (or table group). Lock blocks until the
// key is free or ctx is done and returns the function that releases it.
// The release function may be called more than once; only the first call
// releases. Operations release right after commit and keep a deferred call
// for the error paths.
type TableLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func tableKey(id uint) string { return fmt.Sprintf("table:%d", id) }
func groupKey(id uint) string { return fmt.Sprintf("group:%d", id) }

// LocalLocker is an in-process TableLocker built on one buffered channel per key.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*localLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

func (l *LocalLocker) release(key string, entry *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// lockAll acquires keys in the given order and returns a release for all of
// them. Callers pass table keys in ascending id order followed by the group key.
func lockAll(ctx context.Context, locker TableLocker, keys ...string) (func(), error) {
	unlocks := make([]func(), 0, len(keys))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := locker.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return sync.OnceFunc(releaseAll), nil
}
