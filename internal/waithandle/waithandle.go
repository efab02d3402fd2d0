// Package waithandle provides futures that are settled from outside the
// goroutine waiting on them.
//
// A Table maps keys to pending futures. Resolving or rejecting a key settles
// its future and removes the entry in the same critical section, so a second
// settlement for the same key finds nothing and is a no-op.
package waithandle

import (
	"context"
	"errors"
	"sync"
)

// ErrDiscarded is the result of a future whose entry was discarded before
// anyone settled it.
var ErrDiscarded = errors.New("wait handle discarded")

// Future is the waiting side of a handle.
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) settle(err error) {
	f.err = err
	close(f.done)
}

// Done is closed once the future is settled.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the future is settled or ctx is done. It returns the
// rejection error, nil on resolution, or ctx.Err(). Wait may be called any
// number of times.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Table is a set of pending futures keyed by K. The zero value is ready to use.
type Table[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*Future
}

// Create registers a pending future under key. If key is already pending,
// the existing future is returned.
func (t *Table[K]) Create(key K) *Future {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.entries == nil {
		t.entries = make(map[K]*Future)
	}
	if f, ok := t.entries[key]; ok {
		return f
	}
	f := newFuture()
	t.entries[key] = f
	return f
}

// Resolve settles key successfully. It reports whether a pending entry existed.
func (t *Table[K]) Resolve(key K) bool {
	return t.settle(key, nil)
}

// Reject settles key with err. A nil err is treated as a resolution.
func (t *Table[K]) Reject(key K, err error) bool {
	return t.settle(key, err)
}

// Discard removes key, failing its waiters with ErrDiscarded.
func (t *Table[K]) Discard(key K) bool {
	return t.settle(key, ErrDiscarded)
}

// Pending reports whether key has an unsettled future.
func (t *Table[K]) Pending(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of unsettled futures.
func (t *Table[K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Table[K]) settle(key K, err error) bool {
	t.mu.Lock()
	f, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	t.mu.Unlock()

	if !ok {
		return false
	}
	f.settle(err)
	return true
}
