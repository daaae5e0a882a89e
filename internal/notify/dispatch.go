package notify

import "sync"

// Dispatcher runs fn on the execution context listeners expect, such as a UI
// main thread.
type Dispatcher interface {
	Dispatch(fn func())
}

// Inline runs fn on the calling goroutine.
type Inline struct{}

func (Inline) Dispatch(fn func()) { fn() }

// Loop runs every dispatched fn, in order, on one dedicated goroutine.
// Dispatch never blocks, so a function running on the loop may dispatch
// more work.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts the loop. capacity only sizes the initial queue.
func NewLoop(capacity int) *Loop {
	if capacity < 0 {
		capacity = 0
	}
	l := &Loop{
		queue: make([]func(), 0, capacity),
		done:  make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Dispatch enqueues fn. It is dropped once the loop is closed.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Close stops accepting work and waits for queued functions to finish. It
// must not be called from a function running on the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.cond.Signal()
	l.mu.Unlock()
	<-l.done
}
