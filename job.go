package pdfpages

import (
	"context"
	"sync"
)

// Job is a conversion running on its own goroutine.
type Job struct {
	events <-chan Event
	done   chan struct{}
	result *Result
	err    error
}

// Start runs the conversion in the background and returns immediately.
// Events are buffered without limit, so a slow reader never stalls the
// run; read Events until it is closed to release the forwarding goroutine.
func (c *Converter) Start(ctx context.Context, spec OutputSpec) *Job {
	q := newEventQueue()
	j := &Job{events: q.out, done: make(chan struct{})}

	go func() {
		defer close(j.done)
		defer q.close()
		j.result, j.err = c.run(ctx, spec, c.emitter(q.push))
	}()

	return j
}

// Events returns the progress stream. It is closed after the last event.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Done is closed when the run has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the run finishes and returns its outcome.
func (j *Job) Wait() (*Result, error) {
	<-j.done
	return j.result, j.err
}

// eventQueue is an unbounded FIFO feeding a channel.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
	out    chan Event
}

func newEventQueue() *eventQueue {
	q := &eventQueue{out: make(chan Event)}
	q.cond = sync.NewCond(&q.mu)
	go q.forward()
	return q
}

func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *eventQueue) forward() {
	defer close(q.out)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		e := q.items[0]
		q.items[0] = Event{}
		q.items = q.items[1:]
		q.mu.Unlock()

		q.out <- e
	}
}
