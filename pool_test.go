package chandragen

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func batchEntries(n int) []*ScheduleEntry {
	entries := make([]*ScheduleEntry, n)
	for i := range entries {
		entries[i] = &ScheduleEntry{Job: &JobConfig{ID: fmt.Sprintf("job-%02d", i)}}
	}
	return entries
}

func TestRunBatch_PreservesOrder(t *testing.T) {
	t.Parallel()

	entries := batchEntries(10)
	results := runBatch(context.Background(), 4, entries, func(_ context.Context, e *ScheduleEntry) Result {
		// Later entries finish first.
		var idx int
		_, _ = fmt.Sscanf(e.Job.ID, "job-%d", &idx)
		time.Sleep(time.Duration(len(entries)-idx) * time.Millisecond)
		return Result{Job: e.Job}
	})

	if len(results) != len(entries) {
		t.Fatalf("got %d results, want %d", len(results), len(entries))
	}
	for i, r := range results {
		if r.Job != entries[i].Job {
			t.Errorf("results[%d].Job = %s, want %s", i, r.Job.ID, entries[i].Job.ID)
		}
	}
}

func TestRunBatch_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const workers = 3
	var inFlight, peak atomic.Int32

	runBatch(context.Background(), workers, batchEntries(12), func(_ context.Context, e *ScheduleEntry) Result {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return Result{Job: e.Job}
	})

	if got := peak.Load(); got > workers {
		t.Errorf("peak concurrency = %d, want at most %d", got, workers)
	}
}

func TestRunBatch_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := runBatch(ctx, 2, batchEntries(5), func(_ context.Context, e *ScheduleEntry) Result {
		calls.Add(1)
		return Result{Job: e.Job}
	})

	if calls.Load() != 0 {
		t.Errorf("run called %d times after cancellation", calls.Load())
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) || !errors.Is(r.Err, ErrJobFailed) {
			t.Errorf("results[%d].Err = %v, want cancelled job error", i, r.Err)
		}
	}
}

func TestRunBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := runBatch(context.Background(), 4, nil, nil); got != nil {
		t.Errorf("runBatch(nil) = %v, want nil", got)
	}
}
