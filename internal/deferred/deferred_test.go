package deferred

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolveOnce(t *testing.T) {
	d := New[int]()
	if d.Settled() {
		t.Fatal("new deferred reports settled")
	}
	if !d.Resolve(7) {
		t.Fatal("first Resolve returned false")
	}
	if d.Resolve(8) {
		t.Error("second Resolve returned true")
	}
	if d.Reject(errors.New("late")) {
		t.Error("Reject after Resolve returned true")
	}

	v, err := d.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if v != 7 {
		t.Errorf("Wait() = %d, want 7", v)
	}
}

func TestRejectOnce(t *testing.T) {
	d := New[string]()
	boom := errors.New("boom")
	if !d.Reject(boom) {
		t.Fatal("first Reject returned false")
	}
	if d.Resolve("x") {
		t.Error("Resolve after Reject returned true")
	}
	_, err := d.Wait(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Wait() error = %v, want %v", err, boom)
	}
}

func TestWaitFromAnotherGoroutine(t *testing.T) {
	d := New[int]()
	go func() {
		time.Sleep(5 * time.Millisecond)
		d.Resolve(42)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := d.Wait(ctx)
	if err != nil || v != 42 {
		t.Errorf("Wait() = %d, %v; want 42, nil", v, err)
	}
	select {
	case <-d.Done():
	default:
		t.Error("Done() not closed after resolve")
	}
}

func TestWaitContextExpires(t *testing.T) {
	d := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := d.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
	if d.Settled() {
		t.Error("timeout must not settle the deferred")
	}
}
