// Package cronspec parses job intervals: standard five-field crontab
// expressions, robfig descriptors such as "@hourly" and "@every 90m",
// and "once" for jobs that run a single time.
package cronspec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidInterval is returned for expressions that cannot be parsed.
var ErrInvalidInterval = errors.New("invalid interval")

// OnceExpr is the expression for a job that runs once and never again.
const OnceExpr = "once"

// Schedule is a parsed crontab expression.
//
// Due uses whole-minute slots: a job is due at now when a scheduled time
// falls in now's minute and the job has not completed since that minute
// began. A run that fails leaves lastRun unchanged, so the job is due
// again at the next scheduled time rather than on the next tick.
type Schedule struct {
	expr  string
	sched cron.Schedule
}

// Parse parses expr. An empty expression or "once" yields Once.
func Parse(expr string) (Interval, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, OnceExpr) {
		return Once{}, nil
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidInterval, expr, err)
	}
	return &Schedule{expr: expr, sched: sched}, nil
}

// Interval is the value Parse returns; it matches chandragen.Interval.
type Interval interface {
	Due(now, lastRun time.Time) bool
	String() string
}

// Due reports whether the schedule fires in now's minute and lastRun
// predates that minute.
//
// "@every" schedules are due when lastRun is at least one period ago.
func (s *Schedule) Due(now, lastRun time.Time) bool {
	if every, ok := s.sched.(cron.ConstantDelaySchedule); ok {
		return lastRun.IsZero() || now.Sub(lastRun) >= every.Delay
	}
	slot := now.Truncate(time.Minute)
	if !lastRun.IsZero() && !lastRun.Before(slot) {
		return false
	}
	return s.sched.Next(slot.Add(-time.Nanosecond)).Equal(slot)
}

// Next returns the first activation after t.
func (s *Schedule) Next(t time.Time) time.Time {
	return s.sched.Next(t)
}

func (s *Schedule) String() string { return s.expr }

// Once is due until the job has completed once.
type Once struct{}

// Due reports whether the job never completed.
func (Once) Due(_, lastRun time.Time) bool { return lastRun.IsZero() }

func (Once) String() string { return OnceExpr }
