// Package deferred provides a single-shot future that is settled from outside.
//
// It bridges callback-style readiness (a hook invoked by the overlay on its first
// frame) into something a caller can block on.
package deferred

import (
	"context"
	"sync"
)

// Deferred holds a value of type T that becomes available exactly once.
type Deferred[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   T
	err     error
}

// New returns an unsettled Deferred.
func New[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// Resolve settles d with v. It reports false if d was already settled.
func (d *Deferred[T]) Resolve(v T) bool {
	return d.settle(v, nil)
}

// Reject settles d with err. It reports false if d was already settled.
func (d *Deferred[T]) Reject(err error) bool {
	var zero T
	return d.settle(zero, err)
}

func (d *Deferred[T]) settle(v T, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.settled {
		return false
	}
	d.settled = true
	d.value, d.err = v, err
	close(d.done)
	return true
}

// Done is closed once d settles.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether Resolve or Reject has been called.
func (d *Deferred[T]) Settled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Wait blocks until d settles or ctx is done.
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
