package workers

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"time"

	"asset-transcoder/internal/metrics"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "TRANSFORM_WORKERS"

// Count returns the number of workers for a task with the given
// per-CPU multiplier. It respects container CPU limits via GOMAXPROCS.
// A positive limit caps the result; 0 means no cap.
//
// TRANSFORM_WORKERS, when set to a positive integer, replaces the
// calculated value (still subject to limit).
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns the worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns the worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns the worker count for mixed tasks (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}

// Limiter bounds the number of concurrently running tasks.
// A nil *Limiter imposes no bound.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter returns a Limiter admitting n tasks at once. n below 1 is
// treated as 1.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	metrics.TransformWorkersCapacity.Set(float64(n))
	return &Limiter{slots: make(chan struct{}, n)}
}

// Capacity returns the number of tasks admitted at once, or 0 when l is nil.
func (l *Limiter) Capacity() int {
	if l == nil {
		return 0
	}
	return cap(l.slots)
}

// Acquire blocks until a slot is free or ctx is done. Every successful
// Acquire must be paired with a Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}

	select {
	case l.slots <- struct{}{}:
		metrics.TransformWorkersBusy.Inc()
		return nil
	default:
	}

	start := time.Now()
	select {
	case l.slots <- struct{}{}:
		metrics.TransformQueueWait.Observe(time.Since(start).Seconds())
		metrics.TransformWorkersBusy.Inc()
		return nil
	case <-ctx.Done():
		metrics.TransformQueueWait.Observe(time.Since(start).Seconds())
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	if l == nil {
		return
	}
	<-l.slots
	metrics.TransformWorkersBusy.Dec()
}

// Do runs fn while holding a slot.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
