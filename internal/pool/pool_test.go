package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const testTimeout = 5 * time.Second

func waitOrFail(t *testing.T, done <-chan struct{}, msg string) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal(msg)
	}
}

func TestBuild(t *testing.T) {
	t.Run("zero workers", func(t *testing.T) {
		p, err := Build(0)
		require.ErrorIs(t, err, ErrZeroWorkers)
		require.Nil(t, p)
	})

	t.Run("negative workers", func(t *testing.T) {
		_, err := Build(-1)
		require.ErrorIs(t, err, ErrZeroWorkers)
	})

	t.Run("exact size", func(t *testing.T) {
		p, err := Build(4)
		require.NoError(t, err)
		defer p.Close()
		require.Equal(t, 4, p.Size())
	})
}

func TestExecute(t *testing.T) {
	t.Run("every job runs exactly once", func(t *testing.T) {
		const (
			producers   = 8
			perProducer = 250
		)

		p, err := Build(4)
		require.NoError(t, err)

		var runs [producers * perProducer]atomic.Int32
		var wg sync.WaitGroup

		for i := range producers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				for j := range perProducer {
					idx := i*perProducer + j
					assert.NoError(t, p.Execute(func() {
						runs[idx].Add(1)
					}))
				}
			}(i)
		}

		wg.Wait()
		p.Close()

		for i := range runs {
			require.Equal(t, int32(1), runs[i].Load(), "job %d", i)
		}
	})

	t.Run("workers run concurrently", func(t *testing.T) {
		const size = 4

		p, err := Build(size)
		require.NoError(t, err)
		defer p.Close()

		var started sync.WaitGroup
		started.Add(size)
		release := make(chan struct{})

		for range size {
			require.NoError(t, p.Execute(func() {
				started.Done()
				<-release
			}))
		}

		allStarted := make(chan struct{})
		go func() {
			started.Wait()
			close(allStarted)
		}()

		waitOrFail(t, allStarted, "not all the workers picked up a job")
		close(release)
	})

	t.Run("does not wait for busy workers", func(t *testing.T) {
		p, err := Build(1)
		require.NoError(t, err)

		release := make(chan struct{})
		require.NoError(t, p.Execute(func() { <-release }))

		submitted := make(chan struct{})
		go func() {
			for range 100 {
				_ = p.Execute(func() {})
			}
			close(submitted)
		}()

		waitOrFail(t, submitted, "Execute blocked on a busy worker")
		require.Positive(t, p.Pending())
		close(release)
		p.Close()
		require.Zero(t, p.Pending())
	})

	t.Run("FIFO with a single worker", func(t *testing.T) {
		p, err := Build(1)
		require.NoError(t, err)

		var (
			mu    sync.Mutex
			order []int
		)

		for i := range 50 {
			require.NoError(t, p.Execute(func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			}))
		}

		p.Close()

		for i, got := range order {
			require.Equal(t, i, got)
		}
		require.Len(t, order, 50)
	})
}

func TestPanickingJob(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	p, err := Build(1, WithMeterProvider(provider))
	require.NoError(t, err)

	var survived atomic.Bool
	require.NoError(t, p.Execute(func() { panic("handler exploded") }))
	require.NoError(t, p.Execute(func() { survived.Store(true) }))
	p.Close()

	require.True(t, survived.Load(), "worker must keep running after a panic")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var panics int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "pool.jobs.panics" {
				continue
			}

			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				panics += dp.Value
			}
		}
	}

	require.Equal(t, int64(1), panics)
}

func TestClose(t *testing.T) {
	t.Run("drains queued jobs", func(t *testing.T) {
		p, err := Build(2)
		require.NoError(t, err)

		var done atomic.Int32
		for range 20 {
			require.NoError(t, p.Execute(func() {
				time.Sleep(time.Millisecond)
				done.Add(1)
			}))
		}

		p.Close()
		require.Equal(t, int32(20), done.Load())
	})

	t.Run("rejects new jobs", func(t *testing.T) {
		p, err := Build(2)
		require.NoError(t, err)
		p.Close()

		require.ErrorIs(t, p.Execute(func() {}), ErrClosed)
	})

	t.Run("idempotent", func(t *testing.T) {
		p, err := Build(3)
		require.NoError(t, err)

		closed := make(chan struct{})
		go func() {
			p.Close()
			p.Close()
			close(closed)
		}()

		waitOrFail(t, closed, "Close did not return")
	})
}
