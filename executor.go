package chandragen

import (
	"context"
	"fmt"
	"time"
)

// Executor runs resolved pipelines. The zero value is ready to use.
type Executor struct {
	logger Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger sets the logger for stage-level debug records.
func WithExecutorLogger(l Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{logger: NopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run applies the job's stages to input in order, then splices the heading
// and footing. The context is checked before each stage. Failures are
// returned as *JobError.
func (e *Executor) Run(ctx context.Context, job *JobConfig, input string) (string, error) {
	if job == nil {
		return "", ErrNilJob
	}
	log := e.log().With("job", job.ID)

	text := input
	for _, stage := range job.Pipeline {
		if err := ctx.Err(); err != nil {
			return "", &JobError{Job: job.ID, Formatter: stage.Name, Err: err}
		}

		start := time.Now()
		out, err := stage.Fn(text, job.Flags)
		if err != nil {
			return "", &JobError{Job: job.ID, Formatter: stage.Name, Err: err}
		}
		log.Debug("stage done", "formatter", stage.Name, "duration", time.Since(start))
		text = out
	}

	text, err := spliceHeading(text, job.Heading, job.HeadingEndPattern, job.HeadingStripOffset)
	if err != nil {
		return "", &JobError{Job: job.ID, Err: fmt.Errorf("applying heading: %w", err)}
	}
	return appendFooting(text, job.Footing), nil
}

func (e *Executor) log() Logger {
	if e == nil || e.logger == nil {
		return NopLogger()
	}
	return e.logger
}
