// Package parallel provides the worker pool that dispatches the motion
// blur passes over row ranges of an image.
//
// Every pass of the pipeline is a pure per-pixel (or per-tile) function
// with no cross-pixel mutable state, so a frame is processed by splitting
// it into horizontal bands and running the bands concurrently. A hard
// barrier separates passes: ForEachRow returns only after every band has
// completed, so no pass observes a partially written input.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a pool of goroutines for parallel pass execution.
//
// The pool distributes work items across multiple workers, each with their
// own queue. Workers steal work from other workers when their own queue is
// empty, which balances load when some bands are slower than others.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int

	// queues holds per-worker work queues. Each worker primarily pulls
	// from its own queue but can steal from others.
	queues []chan func()

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				// No work available anywhere, block on own queue.
				select {
				case <-p.done:
					p.drain(myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work()
					}
				}
			}
		}
	}
}

// drain executes all remaining work in a queue.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *Pool) steal(myID int) func() {
	for i := 0; i < p.workers; i++ {
		if i == myID {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run distributes work across workers and waits for all items to complete.
// If the pool is closed, work runs synchronously on the caller so a pass
// can never silently drop part of a frame.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))

	for i, fn := range work {
		workerID := i % p.workers
		workFn := fn

		wrapped := func() {
			defer wg.Done()
			workFn()
		}

		select {
		case p.queues[workerID] <- wrapped:
		case <-p.done:
			// Pool is closing, execute on the caller instead.
			workFn()
			wg.Done()
		}
	}

	wg.Wait()
}

// ForEachRow splits the row range [0, rows) into bands and runs fn for
// each band concurrently. fn receives a half-open row range [y0, y1);
// ranges never overlap. ForEachRow returns after every band completes.
func (p *Pool) ForEachRow(rows int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}

	bands := p.workers * 4
	if bands > rows {
		bands = rows
	}
	chunk := (rows + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y := 0; y < rows; y += chunk {
		y0, y1 := y, y+chunk
		if y1 > rows {
			y1 = rows
		}
		work = append(work, func() { fn(y0, y1) })
	}
	p.Run(work)
}

// Close gracefully shuts down the pool. It stops accepting new work,
// waits for all queued work to complete, and then stops all workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}
