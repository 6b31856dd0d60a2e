package pool

import "sync"

// queue is an unbounded FIFO of jobs. Pushing never waits for a consumer, popping blocks
// until either a job is available or the queue is closed and drained.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []Job
	closed bool
}

func newQueue() *queue {
	q := new(queue)
	q.cond = sync.NewCond(&q.mu)

	return q
}

// Push appends the job to the tail. Returns false if the queue is closed.
func (q *queue) Push(job Job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.jobs = append(q.jobs, job)
	q.cond.Signal()

	return true
}

// Pop removes exactly one job from the head. The returned bool is false only when the
// queue is closed and there are no jobs left.
func (q *queue) Pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.jobs) == 0 {
		return nil, false
	}

	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]

	return job, true
}

// Close forbids further pushes and wakes up every waiting consumer. Jobs already queued
// are still handed out by Pop.
func (q *queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.cond.Broadcast()
}

func (q *queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.jobs)
}
