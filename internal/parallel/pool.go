// Package parallel runs independent pipeline work, such as per-element
// contour classification and per-component planning, on a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines for independent tasks.
//
// Tasks are dealt round-robin onto per-worker queues. An idle worker takes
// from its neighbours, so a batch with a few slow items (large outlines,
// many-holed glyphs) does not wait on a single queue.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	queues []chan func()
	stop   chan struct{}
	wg     sync.WaitGroup
	next   atomic.Uint64

	// mu is held shared while tasks are enqueued and exclusively by Close,
	// so no task is queued after the workers drained their queues.
	mu      sync.RWMutex
	running atomic.Bool
}

// NewWorkerPool starts n workers. n <= 0 means GOMAXPROCS.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	depth := max(n*4, 8)

	p := &WorkerPool{
		queues: make([]chan func(), n),
		stop:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running.Store(true)

	p.wg.Add(n)
	for i := range n {
		go p.run(i)
	}
	return p
}

func (p *WorkerPool) run(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		if task := p.take(id); task != nil {
			task()
			continue
		}
		select {
		case task := <-own:
			task()
		case <-p.stop:
			for {
				select {
				case task := <-own:
					task()
				default:
					return
				}
			}
		}
	}
}

// take returns a queued task without blocking, preferring the worker's own
// queue.
func (p *WorkerPool) take(id int) func() {
	n := len(p.queues)
	for k := range n {
		select {
		case task := <-p.queues[(id+k)%n]:
			return task
		default:
		}
	}
	return nil
}

// ExecuteAll runs every task and waits for all of them. On a closed pool
// the tasks run on the calling goroutine. Tasks must not call ExecuteAll
// on the same pool.
func (p *WorkerPool) ExecuteAll(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		for _, task := range tasks {
			task()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, task := range tasks {
		p.queues[p.next.Add(1)%uint64(len(p.queues))] <- func() {
			defer wg.Done()
			task()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Close stops the workers once their queues are drained. Close is
// idempotent.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.stop)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return len(p.queues)
}

// IsRunning reports whether Close has not been called yet.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Map applies fn to every element of in and returns the results in input
// order. A nil pool runs sequentially.
func Map[T, R any](p *WorkerPool, in []T, fn func(int, T) R) []R {
	out := make([]R, len(in))
	if p == nil || len(in) < 2 {
		for i, v := range in {
			out[i] = fn(i, v)
		}
		return out
	}

	tasks := make([]func(), len(in))
	for i, v := range in {
		tasks[i] = func() {
			out[i] = fn(i, v)
		}
	}
	p.ExecuteAll(tasks)
	return out
}

// MapErr is Map for fallible work. Every item runs; the returned error is
// the one of the lowest failing index, and the results are nil when any
// item failed.
func MapErr[T, R any](p *WorkerPool, in []T, fn func(int, T) (R, error)) ([]R, error) {
	errs := make([]error, len(in))
	out := Map(p, in, func(i int, v T) R {
		r, err := fn(i, v)
		errs[i] = err
		return r
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
