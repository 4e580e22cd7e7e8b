package work

import (
	"context"
	"errors"
	"testing"
	"time"
)

// runLoop starts the loop on its own goroutine and returns a stop func that
// waits for Run to return.
func runLoop(t *testing.T, l *Loop) func() {
	t.Helper()
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = l.Run(context.Background())
	}()
	return func() {
		l.Stop()
		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("loop did not stop")
		}
	}
}

func TestLoop_PostExecutesInOrder(t *testing.T) {
	l := NewLoop(16)
	stop := runLoop(t, l)

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		if err := l.Post(func() {
			order = append(order, i)
			if i == 4 {
				close(done)
			}
		}); err != nil {
			t.Fatalf("Post(%d) failed: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("posted functions did not run")
	}
	stop()

	// order is only touched on the loop goroutine, safe to read after stop.
	for i, v := range order {
		if v != i {
			t.Fatalf("execution order = %v", order)
		}
	}
	if l.Executed() < 5 {
		t.Errorf("Executed() = %d, want >= 5", l.Executed())
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := NewLoop(4)
	stop := runLoop(t, l)
	stop()

	if err := l.Post(func() {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Post after Stop = %v, want ErrLoopStopped", err)
	}
}

func TestLoop_StopDrainsQueued(t *testing.T) {
	l := NewLoop(16)

	ran := 0
	for i := 0; i < 3; i++ {
		if err := l.Post(func() { ran++ }); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	// Stop before Run: queued functions still execute during drain.
	l.Stop()
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if ran != 3 {
		t.Errorf("ran %d queued functions, want 3", ran)
	}
}

func TestLoop_RunTwice(t *testing.T) {
	l := NewLoop(4)
	stop := runLoop(t, l)
	defer stop()

	// Give the first Run a moment to take ownership.
	time.Sleep(10 * time.Millisecond)
	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrLoopAlreadyRunning", err)
	}
}

func TestLoop_ContextCancel(t *testing.T) {
	l := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)
	go func() { errs <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-errs:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}
