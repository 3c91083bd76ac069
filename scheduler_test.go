package chandragen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thanosengine/ChandraGen/internal/cronspec"
)

type stubInterval struct{}

func (stubInterval) Due(_, _ time.Time) bool { return true }

// fakeRunner records calls and fails the jobs listed in fail.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	block chan struct{}
}

func (f *fakeRunner) RunJob(_ context.Context, job *JobConfig) Result {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, job.ID)
	if f.fail[job.ID] {
		return Result{Job: job, Err: &JobError{Job: job.ID, Err: errors.New("boom")}}
	}
	return Result{Job: job}
}

func (f *fakeRunner) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == id {
			n++
		}
	}
	return n
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if m, err := ParseMode(" Crontab "); err != nil || m != ModeCrontab {
		t.Errorf("ParseMode(Crontab) = %q, %v", m, err)
	}
	if _, err := ParseMode("daily"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("ParseMode(daily) error = %v, want ErrInvalidField", err)
	}
}

func TestScheduler_RunOnce_OneFailing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reg := DefaultRegistry()

	mk := func(id, content string) *JobConfig {
		return &JobConfig{
			ID:         id,
			InputPath:  writeInput(t, dir, id+".md", content),
			OutputPath: filepath.Join(dir, "public", id+".gmi"),
			Pipeline:   stages(reg, "table_to_unicode"),
		}
	}
	jobs := []*JobConfig{
		mk("a", "alpha\n"),
		mk("b", "| x | y |\n|---|---|\n| 1 |\n"),
		mk("c", "gamma\n"),
	}

	sched := NewScheduler(jobs, WithWorkers(2))
	results := sched.RunOnce(context.Background())

	ok, failed := Summary(results)
	if ok != 2 || failed != 1 {
		t.Fatalf("Summary() = %d ok, %d failed, want 2 and 1", ok, failed)
	}
	if results[1].Err == nil || results[1].Job.ID != "b" {
		t.Errorf("results[1] = %+v, want failure for b", results[1])
	}

	for _, id := range []string{"a", "c"} {
		if _, err := os.Stat(filepath.Join(dir, "public", id+".gmi")); err != nil {
			t.Errorf("output for %s missing: %v", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "public", "b.gmi")); !os.IsNotExist(err) {
		t.Error("failed job b wrote output")
	}

	entries := sched.Entries()
	if entries[0].LastRun().IsZero() || !entries[1].LastRun().IsZero() {
		t.Error("lastRun should be set for successes only")
	}
}

func TestScheduler_RunOnce_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &fakeRunner{}
	sched := NewScheduler([]*JobConfig{{ID: "a"}, {ID: "b"}}, WithJobRunner(runner))
	results := sched.RunOnce(ctx)

	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %s error = %v, want context.Canceled", r.Job.ID, r.Err)
		}
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times after cancel", len(runner.calls))
	}
}

func TestScheduler_Crontab_RetryNextSlot(t *testing.T) {
	t.Parallel()

	hourly, err := cronspec.Parse("0 * * * *")
	if err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{fail: map[string]bool{"hourly": true}}
	job := &JobConfig{ID: "hourly", Interval: hourly}
	sched := NewScheduler([]*JobConfig{job}, WithJobRunner(runner), WithWorkers(1))
	ctx := context.Background()

	at := func(h, m int) time.Time { return time.Date(2024, 5, 1, h, m, 0, 0, time.UTC) }

	sched.tick(ctx, at(13, 0))
	sched.inflight.Wait()
	if n := runner.count("hourly"); n != 1 {
		t.Fatalf("runs after 13:00 = %d, want 1", n)
	}

	for m := 1; m < 60; m++ {
		sched.tick(ctx, at(13, m))
	}
	sched.inflight.Wait()
	if n := runner.count("hourly"); n != 1 {
		t.Fatalf("runs before 14:00 = %d, want 1 (no retry until next slot)", n)
	}

	// Succeeds from now on.
	runner.mu.Lock()
	runner.fail = nil
	runner.mu.Unlock()

	sched.tick(ctx, at(14, 0))
	sched.inflight.Wait()
	if n := runner.count("hourly"); n != 2 {
		t.Fatalf("runs after 14:00 = %d, want 2", n)
	}
	if got := sched.Entries()[0].LastRun(); !got.Equal(at(14, 0)) {
		t.Errorf("LastRun() = %v, want 14:00", got)
	}
}

func TestScheduler_Crontab_NoOverlap(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{block: make(chan struct{})}
	job := &JobConfig{ID: "slow", Interval: stubInterval{}}
	sched := NewScheduler([]*JobConfig{job}, WithJobRunner(runner), WithWorkers(4))
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sched.tick(ctx, now)
	entry := sched.Entries()[0]
	if !entry.Running() {
		t.Fatal("entry not marked running")
	}
	sched.tick(ctx, now.Add(time.Minute))
	sched.tick(ctx, now.Add(2*time.Minute))

	close(runner.block)
	sched.inflight.Wait()

	if n := runner.count("slow"); n != 1 {
		t.Errorf("runs = %d, want 1 while the first run was in flight", n)
	}
	if entry.Running() {
		t.Error("entry still marked running after completion")
	}
}

func TestScheduler_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	runner := jobRunnerFunc(func(_ context.Context, job *JobConfig) Result {
		runs.Add(1)
		return Result{Job: job}
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched := NewScheduler([]*JobConfig{{ID: "once"}}, WithJobRunner(runner), WithTickRate(5*time.Millisecond))

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(time.Millisecond):
		}
	}
	// Let a few ticks pass: a job without an interval runs only once.
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}

type jobRunnerFunc func(context.Context, *JobConfig) Result

func (f jobRunnerFunc) RunJob(ctx context.Context, job *JobConfig) Result { return f(ctx, job) }
