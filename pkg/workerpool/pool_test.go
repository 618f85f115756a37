package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/till/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New("test", 4, 0)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	for i := 0; i < n; i++ {
		if err := pool.SubmitWait(func() { count.Add(1) }); err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}
	pool.Drain()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_SingleWorkerKeepsOrder(t *testing.T) {
	pool := workerpool.New("ordered", 1, 8)
	defer pool.Shutdown()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 50; i++ {
		i := i
		_ = pool.SubmitWait(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	pool.Drain()

	if len(got) != 50 {
		t.Fatalf("expected 50 tasks, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New("full", 1, 2)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started

	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	err := pool.Submit(func() {})
	if !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}

	close(blocker)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New("closed", 2, 0)
	pool.Shutdown()
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
}

func TestPool_PanicRecovery(t *testing.T) {
	pool := workerpool.New("panics", 1, 0)
	defer pool.Shutdown()

	_ = pool.SubmitWait(func() { panic("boom") })

	normal := make(chan struct{})
	_ = pool.SubmitWait(func() { close(normal) })

	select {
	case <-normal:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not recover from panic")
	}
}

func TestPool_ShutdownRunsQueuedTasks(t *testing.T) {
	pool := workerpool.New("shutdown", 1, 16)

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		_ = pool.SubmitWait(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}
	pool.Shutdown()

	if got := count.Load(); got != 10 {
		t.Errorf("expected queued tasks to finish before Shutdown returns, got %d", got)
	}
}
