package chandragen

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/thanosengine/ChandraGen/internal/fileutil"
)

// Result is the outcome of one job run.
type Result struct {
	Job      *JobConfig
	RunID    string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// OK reports whether the run succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Runner reads a job's input, executes its pipeline and writes the output.
// Output is written atomically and only when every stage succeeded.
type Runner struct {
	exec      *Executor
	logger    Logger
	now       func() time.Time
	readFile  func(string) ([]byte, error)
	writeFile func(string, []byte) error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger for per-run records.
func WithRunnerLogger(l Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithExecutor replaces the executor.
func WithExecutor(e *Executor) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.exec = e
		}
	}
}

// NewRunner creates a Runner backed by the local filesystem.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:    NopLogger(),
		now:       time.Now,
		readFile:  readInput,
		writeFile: fileutil.WriteFileAtomic,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exec == nil {
		r.exec = NewExecutor(WithExecutorLogger(r.logger))
	}
	return r
}

// RunJob performs one run of job.
func (r *Runner) RunJob(ctx context.Context, job *JobConfig) Result {
	res := Result{Job: job, RunID: uuid.NewString(), Started: r.now()}
	if job == nil {
		res.Err = ErrNilJob
		return res
	}
	log := r.logger.With("job", job.ID, "entry", job.Entry, "run_id", res.RunID)
	log.Debug("job started", "input", job.InputPath, "output", job.OutputPath)

	res.Err = r.run(ctx, job)
	res.Duration = r.now().Sub(res.Started)

	if res.Err != nil {
		log.Error("job failed", "error", res.Err, "duration", res.Duration)
		return res
	}
	log.Info("job finished", "output", job.OutputPath, "duration", res.Duration)
	return res
}

func (r *Runner) run(ctx context.Context, job *JobConfig) error {
	if err := ctx.Err(); err != nil {
		return &JobError{Job: job.ID, Err: err}
	}

	content, err := r.readFile(job.InputPath)
	if err != nil {
		return &JobError{Job: job.ID, Err: fmt.Errorf("%w: %w", ErrReadInput, err)}
	}

	out, err := r.exec.Run(ctx, job, string(content))
	if err != nil {
		return err
	}

	if err := r.writeFile(job.OutputPath, []byte(out)); err != nil {
		return &JobError{Job: job.ID, Err: fmt.Errorf("%w: %w", ErrWriteOutput, err)}
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 -- configured input path
}
