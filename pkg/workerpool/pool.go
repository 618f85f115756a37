// Package workerpool runs background tasks on a fixed set of goroutines.
//
// A pool of one worker gives strictly ordered execution, which is how the
// terminal persists its writes:
//
//	pool := workerpool.New("persist", 1, 64)
//	defer pool.Shutdown()
//	_ = pool.SubmitWait(func() { save() })
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/till/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when the queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned after Shutdown.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	name  string
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed against concurrent submits; cond tracks pending.
	mu      sync.Mutex
	cond    *sync.Cond
	closed  bool
	pending int
}

// New starts size workers sharing a queue of the given depth.
func New(name string, size, queue int) *Pool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = size * 2
	}

	p := &Pool{name: name, tasks: make(chan func(), queue)}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		p.pending++
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.pending++
	p.mu.Unlock()

	// Shutdown waits for pending to reach zero before closing the channel,
	// so this send cannot hit a closed channel.
	p.tasks <- task
	return nil
}

// Drain blocks until every task submitted so far has finished.
func (p *Pool) Drain() {
	p.mu.Lock()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// Shutdown stops accepting tasks, runs what is queued and stops the workers.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	for p.pending > 0 {
		p.cond.Wait()
	}
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
		p.mu.Unlock()
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", r)
		}
	}()
	task()
}
