package chandragen

import (
	"context"
	"runtime"
	"sync"
)

// Worker count bounds.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent jobs; formatters are CPU bound and
	// documents are small, so more workers mostly add contention.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the rest of the process.
	cpuDivisor = 2
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// runBatch calls run for every entry with at most workers calls in flight
// and returns the results in entry order. Entries not started before ctx is
// cancelled get a cancellation result instead.
func runBatch(ctx context.Context, workers int, entries []*ScheduleEntry, run func(context.Context, *ScheduleEntry) Result) []Result {
	if len(entries) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(entries) {
		concurrency = len(entries)
	}
	if concurrency < MinPoolSize {
		concurrency = MinPoolSize
	}

	results := make([]Result, len(entries))
	var wg sync.WaitGroup
	jobs := make(chan int, len(entries))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					job := entries[idx].Job
					results[idx] = Result{Job: job, Err: &JobError{Job: job.ID, Err: err}}
					continue
				}
				results[idx] = run(ctx, entries[idx])
			}
		}()
	}

	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}
