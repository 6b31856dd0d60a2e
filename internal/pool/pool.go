package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tofu345/http-library/internal/obs"
)

// Job is a unit of work. It is executed exactly once by exactly one worker.
type Job func()

var (
	ErrZeroWorkers = errors.New("pool: the number of workers must be positive")
	ErrClosed      = errors.New("pool: submitting a job to a closed pool")
)

type Option func(*Pool)

// WithLogger sets the logger. Workers report their shutdown and recovered panics in it.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = obs.OrDiscard(logger)
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(p *Pool) {
		p.meterProvider = provider
	}
}

// Pool is a fixed set of workers, consuming jobs from a shared FIFO queue. Only taking a
// job from the queue is serialized, execution happens concurrently.
type Pool struct {
	queue         *queue
	workers       []worker
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	closeOnce     sync.Once

	queued metric.Int64UpDownCounter
	panics metric.Int64Counter
}

type worker struct {
	id   int
	done chan struct{}
}

// Build spawns exactly size workers. A non-positive size is a configuration error.
func Build(size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrZeroWorkers, size)
	}

	p := &Pool{
		queue:         newQueue(),
		workers:       make([]worker, size),
		logger:        obs.Discard(),
		meterProvider: otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(p)
	}

	meter := p.meterProvider.Meter(obs.Scope)
	p.queued = obs.Int64UpDownCounter(meter, "pool.jobs.queued", "Jobs waiting for a free worker", "{job}")
	p.panics = obs.Int64Counter(meter, "pool.jobs.panics", "Jobs terminated by a panic", "{job}")

	for id := range p.workers {
		p.workers[id] = worker{id: id, done: make(chan struct{})}
		go p.work(p.workers[id])
	}

	return p, nil
}

// Execute enqueues the job. It never waits for the job to complete.
func (p *Pool) Execute(job Job) error {
	if !p.queue.Push(job) {
		return ErrClosed
	}

	p.queued.Add(context.Background(), 1)
	return nil
}

// Close stops accepting new jobs, waits until every already queued job is done and
// all the workers have exited. Safe to be called multiple times.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.queue.Close()

		for _, w := range p.workers {
			p.logger.Debug("shutting down worker", "worker", w.id)
			<-w.done
		}
	})
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Pending returns the number of jobs not yet taken by any worker.
func (p *Pool) Pending() int {
	return p.queue.Len()
}

func (p *Pool) work(w worker) {
	defer close(w.done)

	for {
		job, ok := p.queue.Pop()
		if !ok {
			p.logger.Debug("worker disconnected, shutting down", "worker", w.id)
			return
		}

		p.queued.Add(context.Background(), -1)
		p.run(w, job)
	}
}

func (p *Pool) run(w worker, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("worker", w.id)))
			p.logger.Error("job panicked", "worker", w.id, "panic", r)
		}
	}()

	job()
}
