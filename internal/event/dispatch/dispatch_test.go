package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type handlerFunc func(ctx context.Context, event any) error

func (f handlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

func TestSync_Dispatch(t *testing.T) {
	d := NewSync()

	var got any
	result := d.Dispatch(context.Background(), "payload", handlerFunc(func(_ context.Context, e any) error {
		got = e
		return nil
	}))

	if !result.Success {
		t.Fatalf("result = %+v, want success", result)
	}
	if got != "payload" {
		t.Errorf("handler received %v, want %q", got, "payload")
	}
	if s := d.Stats(); s.Succeeded != 1 || s.Dispatched != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestSync_DispatchError(t *testing.T) {
	d := NewSync()
	wantErr := errors.New("handler failed")

	result := d.Dispatch(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		return wantErr
	}))

	if result.Success || !errors.Is(result.Err, wantErr) {
		t.Errorf("result = %+v, want error %v", result, wantErr)
	}
	if s := d.Stats(); s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}
}

func TestSync_DispatchPanic(t *testing.T) {
	var panicked any
	d := NewSync(WithSyncPanicHandler(func(_ any, v any, _ []byte) {
		panicked = v
	}))

	result := d.Dispatch(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		panic("boom")
	}))

	if !result.Panicked {
		t.Fatalf("result = %+v, want panicked", result)
	}
	if result.PanicValue != "boom" {
		t.Errorf("PanicValue = %v, want %q", result.PanicValue, "boom")
	}
	if panicked != "boom" {
		t.Errorf("panic handler saw %v, want %q", panicked, "boom")
	}
	if s := d.Stats(); s.Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", s.Panicked)
	}
}

func TestSync_CancelledContextSkips(t *testing.T) {
	d := NewSync()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	result := d.Dispatch(ctx, nil, handlerFunc(func(context.Context, any) error {
		calls++
		return nil
	}))

	if !result.Skipped {
		t.Errorf("result = %+v, want skipped", result)
	}
	if calls != 0 {
		t.Errorf("handler ran %d times on cancelled context, want 0", calls)
	}
}

func TestAsync_StartStop(t *testing.T) {
	d := NewAsync()

	if err := d.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := d.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want ErrAlreadyRunning", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := d.Stop(ctx); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop() = %v, want ErrNotRunning", err)
	}
}

func TestAsync_EnqueueExecutes(t *testing.T) {
	d := NewAsync(WithWorkerCount(2), WithQueueSize(16))
	if err := d.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	const n = 8
	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := d.Enqueue(context.Background(), i, handlerFunc(func(_ context.Context, e any) error {
			mu.Lock()
			seen[e.(int)] = true
			mu.Unlock()
			wg.Done()
			return nil
		}))
		if err != nil {
			t.Fatalf("Enqueue(%d) failed: %v", i, err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async execution")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if len(seen) != n {
		t.Errorf("executed %d tasks, want %d", len(seen), n)
	}
	if s := d.Stats(); s.Succeeded != n {
		t.Errorf("Succeeded = %d, want %d", s.Succeeded, n)
	}
}

func TestAsync_EnqueueNotRunning(t *testing.T) {
	d := NewAsync()
	err := d.Enqueue(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		return nil
	}))
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("Enqueue on stopped dispatcher = %v, want ErrNotRunning", err)
	}
}

func TestAsync_QueueFull(t *testing.T) {
	d := NewAsync(WithWorkerCount(1), WithQueueSize(1))
	if err := d.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = d.Stop(ctx)
	}()

	release := make(chan struct{})
	blocker := handlerFunc(func(context.Context, any) error {
		<-release
		return nil
	})
	defer close(release)

	// First task occupies the single worker, second fills the queue.
	if err := d.Enqueue(context.Background(), 1, blocker); err != nil {
		t.Fatalf("Enqueue(1) failed: %v", err)
	}

	// Keep filling until the queue rejects; the worker may or may not have
	// picked up the first task yet.
	deadline := time.After(2 * time.Second)
	for {
		err := d.Enqueue(context.Background(), 2, blocker)
		if errors.Is(err, ErrQueueFull) {
			break
		}
		if err != nil {
			t.Fatalf("Enqueue = %v, want nil or ErrQueueFull", err)
		}
		select {
		case <-deadline:
			t.Fatal("queue never reported full")
		default:
		}
	}

	if s := d.Stats(); s.Dropped == 0 {
		t.Error("Dropped = 0, want at least 1")
	}
}
