package runner

import "sync"

// job is one accepted Run call waiting for the worker.
type job struct {
	id        string
	streaming bool

	done chan struct{}
	err  error
}

func newJob(id string, streaming bool) *job {
	return &job{id: id, streaming: streaming, done: make(chan struct{})}
}

func (j *job) finish(err error) {
	j.err = err
	close(j.done)
}

// queue is an unbounded FIFO of jobs with a single consumer.
type queue struct {
	mu     sync.Mutex
	items  []*job
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push appends j. It reports false once the queue is closed.
func (q *queue) push(j *job) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, j)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// pop removes the oldest job, if any.
func (q *queue) pop() (*job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	j := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return j, true
}

// close rejects further pushes and returns the jobs still waiting.
func (q *queue) close() []*job {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	pending := q.items
	q.items = nil
	return pending
}

// work drains the queue one job at a time until the runner is closed.
func (r *Runner) work() {
	defer r.wg.Done()
	for {
		if j, ok := r.queue.pop(); ok {
			r.execute(j.id, j.streaming)
			j.finish(nil)
			continue
		}

		select {
		case <-r.queue.wake:
		case <-r.ctx.Done():
			return
		}
	}
}
