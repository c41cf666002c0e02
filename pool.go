package ticketpdf

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxRenderWorkers caps concurrent browser tabs to bound renderer memory.
	MaxRenderWorkers = 8

	// DefaultGenerateWorkers bounds the code generation fan-out per chunk.
	DefaultGenerateWorkers = 10

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ResolveWorkers determines a worker count capped at limit.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolveWorkers(workers, limit int) int {
	n := workers
	if n <= 0 {
		// GOMAXPROCS is adjusted by automaxprocs in containers.
		n = runtime.GOMAXPROCS(0) / cpuDivisor
	}
	if n < MinWorkers {
		n = MinWorkers
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// runIndexed calls fn for i in [0, n) on at most workers goroutines. Callers
// store results by index, so output order never depends on completion order.
// The first error cancels the remaining calls and is returned.
func runIndexed(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, MinWorkers))

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// A cancelled parent may have stopped the loop before any call failed.
	return ctx.Err()
}
