// Package frame provides a cooperative per-frame callback queue, the terminal
// counterpart of requestAnimationFrame.
package frame

import (
	"context"
	"sync"
	"time"
)

// ID identifies a queued callback.
type ID uint64

// Scheduler queues callbacks for the next frame.
type Scheduler interface {
	RequestFrame(fn func()) ID
	CancelFrame(id ID)
}

type entry struct {
	id ID
	fn func()
}

// Loop is a Scheduler whose frames advance when Step is called.
// Callbacks run on the goroutine calling Step.
type Loop struct {
	mu     sync.Mutex
	nextID ID
	queue  []entry
	frames uint64

	// IDs of the batch currently running; false once cancelled
	running map[ID]bool
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// RequestFrame queues fn to run on the next Step.
func (l *Loop) RequestFrame(fn func()) ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.queue = append(l.queue, entry{id: l.nextID, fn: fn})
	return l.nextID
}

// CancelFrame removes a queued callback. Unknown or already-run IDs are ignored.
func (l *Loop) CancelFrame(id ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.queue {
		if e.id == id {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			return
		}
	}
	if _, ok := l.running[id]; ok {
		l.running[id] = false
	}
}

// Step runs every callback queued before the call, in submission order, and
// returns how many ran. Callbacks queued while stepping wait for the next Step.
func (l *Loop) Step() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.frames++
	l.running = make(map[ID]bool, len(batch))
	for _, e := range batch {
		l.running[e.id] = true
	}
	l.mu.Unlock()

	ran := 0
	for _, e := range batch {
		if !l.take(e.id) {
			continue
		}
		e.fn()
		ran++
	}

	l.mu.Lock()
	l.running = nil
	l.mu.Unlock()
	return ran
}

// take reports whether id is still live in the running batch.
func (l *Loop) take(id ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := l.running[id]
	delete(l.running, id)
	return live
}

// Pending returns the number of callbacks waiting for the next Step.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Frames returns how many times Step has run.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Await runs fn on a new goroutine and steps l on the calling goroutine every
// interval until fn returns or ctx is done. It lets a blocking call wait on
// frame callbacks without those callbacks leaving the caller's goroutine.
func Await(ctx context.Context, l *Loop, interval time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			l.Step()
		}
	}
}
