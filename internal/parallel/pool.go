// Package parallel runs row bands of a software frame on a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of worker goroutines, each with its own queue. An idle
// worker steals from the other queues before blocking on its own.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
			continue
		default:
		}

		if stolen := p.steal(id); stolen != nil {
			stolen()
			continue
		}
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
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

// Run distributes work round-robin and waits until every item has run.
// On a closed pool the items run on the calling goroutine.
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
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// ForBands splits rows [0, n) into contiguous bands, one or more per
// worker, and calls fn(lo, hi) for each band in parallel.
func (p *Pool) ForBands(n int, fn func(lo, hi int)) {
	bands := Bands(n, p.workers*2)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b[0], b[1]) }
	}
	p.Run(work)
}

// Close stops the workers after the queued work has run. It is safe to
// call more than once.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Bands splits [0, n) into at most parts contiguous half-open ranges whose
// sizes differ by at most one. It returns nil for n <= 0.
func Bands(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = max(min(parts, n), 1)
	out := make([][2]int, parts)
	size, extra := n/parts, n%parts
	lo := 0
	for i := range out {
		hi := lo + size
		if i < extra {
			hi++
		}
		out[i] = [2]int{lo, hi}
		lo = hi
	}
	return out
}
