package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/config"
	"github.com/thanosengine/ChandraGen/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage      = errors.New("invalid usage")
	ErrNoJobs     = errors.New("no jobs to run")
	ErrJobsFailed = errors.New("jobs failed")
	ErrResolve    = errors.New("some entries could not be resolved")
)

// runRun loads the configuration, resolves every entry and schedules the
// resulting jobs. Entries that fail to resolve are reported and skipped;
// the others still run.
func runRun(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRunFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printRunUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, positional)
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	cfg, err := config.LoadConfig(flags.common.config)
	if err != nil {
		return err
	}
	if err := applyRunFlags(cfg, flags); err != nil {
		return err
	}

	logger, err := newLogger(cfg, &flags.common)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	// Resolution problems are printed up front so crontab mode shows them
	// before it blocks; the returned error only carries the exit status.
	jobs, problems, err := resolveJobs(cfg, env.Registry)
	if err != nil {
		return err
	}
	var resolveErr error
	if len(problems) > 0 {
		reportProblems(env.Stderr, problems, env)
		resolveErr = ErrResolve
	}
	if len(jobs) == 0 {
		return errors.Join(ErrNoJobs, resolveErr)
	}

	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	tick, err := cfg.TickRate()
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfigInvalid, err)
	}

	sched := chandragen.NewScheduler(jobs,
		chandragen.WithWorkers(cfg.System.Workers),
		chandragen.WithTickRate(tick),
		chandragen.WithLogger(logger),
		chandragen.WithClock(env.Now),
	)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", sched.Workers())
	}

	if mode == chandragen.ModeCrontab {
		sched.Run(ctx)
		return resolveErr
	}

	results := sched.RunOnce(ctx)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return errors.Join(fmt.Errorf("%w: %d of %d", ErrJobsFailed, failed, len(results)), resolveErr)
	}
	return resolveErr
}

// applyRunFlags overrides system settings from the command line and
// re-validates the result.
func applyRunFlags(cfg *config.Config, flags *runFlags) error {
	if flags.mode != "" {
		cfg.System.SchedulerMode = flags.mode
	}
	if flags.workers >= 0 {
		cfg.System.Workers = flags.workers
	}
	if flags.tick != "" {
		cfg.System.TickRate = flags.tick
	}
	if flags.common.logLevel != "" {
		cfg.System.LogLevel = flags.common.logLevel
	}
	if flags.common.logFormat != "" {
		cfg.System.LogFormat = flags.common.logFormat
	}
	return cfg.Validate()
}

// resolveJobs expands and resolves the configured entries against reg.
// Failures of individual entries are returned as problems next to the jobs
// that did resolve; err is set only when nothing could be planned.
func resolveJobs(cfg *config.Config, reg *chandragen.Registry) (jobs []*chandragen.JobConfig, problems []error, err error) {
	plan, planErr := cfg.Plan()
	if plan == nil {
		return nil, nil, planErr
	}
	if planErr != nil {
		if joined, ok := planErr.(interface{ Unwrap() []error }); ok {
			problems = append(problems, joined.Unwrap()...)
		} else {
			problems = append(problems, planErr)
		}
	}

	jobs, err = chandragen.Resolve(reg, plan.Defaults, plan.Entries)
	var resolveErr *chandragen.ResolveError
	if errors.As(err, &resolveErr) {
		problems = append(problems, resolveErr.Errs...)
	} else if err != nil {
		return nil, problems, err
	}
	return jobs, problems, nil
}

// newLogger builds the job logger. --quiet and --verbose win over the
// configured level unless --log-level was given.
func newLogger(cfg *config.Config, flags *commonFlags) (chandragen.Logger, error) {
	level := cfg.System.LogLevel
	if flags.logLevel == "" {
		switch {
		case flags.quiet:
			level = "error"
		case flags.verbose:
			level = "debug"
		}
	}

	provider, err := logging.NewProvider(logging.Config{
		Level:     level,
		Format:    cfg.System.LogFormat,
		AddSource: flags.verbose,
	})
	if err != nil {
		return nil, err
	}
	return provider.Logger("chandragen"), nil
}

// printResults outputs job results and returns the number of failures.
func printResults(results []chandragen.Result, quiet, verbose bool, env *Environment) int {
	succeeded, failed := chandragen.Summary(results)

	for _, r := range results {
		id := "<nil>"
		if r.Job != nil {
			id = r.Job.ID
		}
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", id, r.Err, hintFor(r.Err, env))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Job.InputPath, r.Job.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Job.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
