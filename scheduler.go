package chandragen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Mode selects how the scheduler runs jobs.
type Mode string

// Scheduler modes.
const (
	// ModeOneshot runs every job once and returns.
	ModeOneshot Mode = "oneshot"
	// ModeCrontab keeps running jobs whenever their interval is due.
	ModeCrontab Mode = "crontab"
)

// DefaultTickRate is how often crontab mode checks for due jobs.
const DefaultTickRate = time.Minute

// ParseMode parses a scheduler mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOneshot, ModeCrontab:
		return m, nil
	default:
		return "", fmt.Errorf("%w: scheduler mode %q (must be oneshot or crontab)", ErrInvalidField, s)
	}
}

// Interval decides when a job runs again in crontab mode.
type Interval interface {
	// Due reports whether a job last completed at lastRun should run at now.
	// lastRun is the zero time when the job never completed.
	Due(now, lastRun time.Time) bool
}

// JobRunner runs a single job. *Runner implements it.
type JobRunner interface {
	RunJob(ctx context.Context, job *JobConfig) Result
}

// ScheduleEntry tracks the scheduling state of one job.
type ScheduleEntry struct {
	Job      *JobConfig
	Interval Interval

	lastRun atomic.Int64 // unix nanoseconds of the last success, 0 if none
	running atomic.Bool
}

// LastRun returns the time of the last successful run, or the zero time.
func (e *ScheduleEntry) LastRun() time.Time {
	ns := e.lastRun.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Running reports whether a run of the job is in flight.
func (e *ScheduleEntry) Running() bool {
	return e.running.Load()
}

func (e *ScheduleEntry) due(now time.Time) bool {
	if e.Interval == nil {
		return e.lastRun.Load() == 0
	}
	return e.Interval.Due(now, e.LastRun())
}

// Scheduler runs resolved jobs once or on their intervals.
type Scheduler struct {
	entries  []*ScheduleEntry
	runner   JobRunner
	workers  int
	tickRate time.Duration
	logger   Logger
	now      func() time.Time

	inflight sync.WaitGroup
	sem      chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWorkers bounds the number of jobs running at once. Zero or less
// picks a size from GOMAXPROCS.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) { s.workers = n }
}

// WithTickRate sets how often crontab mode checks for due jobs.
func WithTickRate(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickRate = d
		}
	}
}

// WithLogger sets the scheduler logger. It is also handed to the default runner.
func WithLogger(l Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJobRunner replaces the runner jobs are executed with.
func WithJobRunner(r JobRunner) SchedulerOption {
	return func(s *Scheduler) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a scheduler for jobs.
func NewScheduler(jobs []*JobConfig, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		tickRate: DefaultTickRate,
		logger:   NopLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.workers = ResolvePoolSize(s.workers)
	s.sem = make(chan struct{}, s.workers)
	if s.runner == nil {
		s.runner = NewRunner(WithRunnerLogger(s.logger))
	}

	s.entries = make([]*ScheduleEntry, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		s.entries = append(s.entries, &ScheduleEntry{Job: job, Interval: job.Interval})
	}
	return s
}

// Entries returns the scheduling state of every job.
func (s *Scheduler) Entries() []*ScheduleEntry {
	return s.entries
}

// Workers returns the resolved worker count.
func (s *Scheduler) Workers() int {
	return s.workers
}

// RunOnce runs every job once, at most Workers at a time, and returns
// the results in job order. A failing job does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	s.logger.Info("running jobs", "mode", string(ModeOneshot), "jobs", len(s.entries), "workers", s.workers)
	return runBatch(ctx, s.workers, s.entries, func(ctx context.Context, e *ScheduleEntry) Result {
		return s.runEntry(ctx, e, s.now())
	})
}

// Run checks for due jobs immediately and then every tick, starting each
// due job in its own goroutine. A job is never started while a previous
// run of it is still in flight. Run blocks until ctx is cancelled and
// in-flight runs have returned.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "mode", string(ModeCrontab), "jobs", len(s.entries), "workers", s.workers, "tick", s.tickRate)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	s.tick(ctx, s.now())

	for {
		select {
		case <-ctx.Done():
			s.inflight.Wait()
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx, s.now())
		}
	}
}

// tick starts every entry due at now.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	started := 0
	for _, e := range s.entries {
		if ctx.Err() != nil {
			return
		}
		if !e.due(now) {
			continue
		}
		if !e.running.CompareAndSwap(false, true) {
			s.logger.Debug("job still running, skipping", "job", e.Job.ID)
			continue
		}

		started++
		s.inflight.Add(1)
		go func(e *ScheduleEntry) {
			defer s.inflight.Done()
			defer e.running.Store(false)

			select {
			case s.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-s.sem }()

			s.runEntry(ctx, e, now)
		}(e)
	}
	if started > 0 {
		s.logger.Debug("dispatched due jobs", "count", started, "at", now)
	}
}

// runEntry runs e and, on success, records at as its last run.
func (s *Scheduler) runEntry(ctx context.Context, e *ScheduleEntry, at time.Time) Result {
	res := s.runner.RunJob(ctx, e.Job)
	if res.Err == nil {
		e.lastRun.Store(at.UnixNano())
	}
	return res
}

// Summary counts successes and failures in results.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		succeeded++
	}
	return succeeded, failed
}
