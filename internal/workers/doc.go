/*
Package workers sizes and bounds concurrent work in containerized
environments.

Go sets GOMAXPROCS from the container CPU limit, while runtime.NumCPU still
reports the host's CPUs. Count and its helpers derive worker counts from
GOMAXPROCS:

	n := workers.ForCPU(8)   // 1 per CPU, at most 8
	n := workers.ForIO(16)   // 2 per CPU, at most 16
	n := workers.ForMixed(0) // 1.5 per CPU, uncapped

The TRANSFORM_WORKERS environment variable overrides the calculation.

# Limiter

A Limiter is a counting semaphore used to bound concurrent transforms.
Stylesheet and script transforms are CPU-bound, so the server sizes its
limiter with ForCPU:

	lim := workers.NewLimiter(workers.ForCPU(0))
	err := lim.Do(ctx, func() error {
		out, err = engine.Transform(ctx, src, opts)
		return err
	})

Acquire honours context cancellation, so a client that disconnects while
queued does not consume a slot. A nil *Limiter admits everything.

Busy slots, capacity and queue wait time are exported as Prometheus
metrics.
*/
package workers
