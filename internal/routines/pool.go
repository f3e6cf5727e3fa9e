// Package routines provides a goroutine pool that executes work in FIFO
// order.
package routines

import (
	"sync"
)

// Pool is a FIFO go-routine pool.
type Pool struct {
	wq        []WorkFn
	terminate bool
	wqMutex   sync.Mutex // protects wq and terminate

	workChan chan WorkFn

	schedulerNotifyChan chan struct{}

	terminateWg sync.WaitGroup
}

// WorkFn is a function that is executed by the pool workers.
type WorkFn func()

// NewPool creates and starts a new go-routine pool with the given number of
// workers. If workers is 0, 1 worker is started.
func NewPool(workers uint) *Pool {
	if workers == 0 {
		workers = 1
	}

	p := Pool{
		workChan:            make(chan WorkFn),
		schedulerNotifyChan: make(chan struct{}, 1),
	}

	p.terminateWg.Add(1)
	go p.scheduler()

	for i := uint(0); i < workers; i++ {
		p.terminateWg.Add(1)
		go p.worker()
	}

	return &p
}

func (p *Pool) scheduler() {
	defer p.terminateWg.Done()

	for {
		<-p.schedulerNotifyChan

		for {
			work := p.popWork()
			if work == nil {
				break
			}

			p.workChan <- work
		}

		p.wqMutex.Lock()
		terminate := p.terminate && len(p.wq) == 0
		p.wqMutex.Unlock()

		if terminate {
			close(p.workChan)
			return
		}
	}
}

func (p *Pool) popWork() WorkFn {
	p.wqMutex.Lock()
	defer p.wqMutex.Unlock()

	if len(p.wq) == 0 {
		return nil
	}

	w := p.wq[0]
	p.wq[0] = nil
	p.wq = p.wq[1:]

	return w
}

func (p *Pool) worker() {
	defer p.terminateWg.Done()

	for workFn := range p.workChan {
		workFn()
	}
}

func (p *Pool) notifyScheduler() {
	select {
	case p.schedulerNotifyChan <- struct{}{}:
	default:
	}
}

// Queue queues new work for the pool.
// If Queue() is called after Wait(), the method panics.
// The method never blocks.
func (p *Pool) Queue(workFn WorkFn) {
	p.wqMutex.Lock()
	defer p.wqMutex.Unlock()

	if p.terminate {
		panic("work was queued on a closed pool")
	}

	p.wq = append(p.wq, workFn)
	p.notifyScheduler()
}

// Wait waits until all queued work was executed and then terminates the
// worker goroutines.
// After Wait() was called, no further work must be queued.
func (p *Pool) Wait() {
	p.wqMutex.Lock()
	p.terminate = true
	p.wqMutex.Unlock()

	p.notifyScheduler()

	p.terminateWg.Wait()
}
