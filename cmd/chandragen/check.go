package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/config"
)

// runCheck loads and resolves the configuration without running any job,
// printing one line per resolved job.
func runCheck(args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCheckUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, positional)
	}

	cfg, err := config.LoadConfig(flags.config)
	if err != nil {
		return err
	}

	jobs, problems, err := resolveJobs(cfg, env.Registry)
	if err != nil {
		return err
	}
	if !flags.quiet {
		for _, job := range jobs {
			printJob(env, job, flags.verbose)
		}
		fmt.Fprintf(env.Stdout, "%s: %d job(s) ok\n", cfg.Path, len(jobs))
	}
	if len(problems) > 0 {
		reportProblems(env.Stderr, problems, env)
		return ErrResolve
	}
	return nil
}

func printJob(env *Environment, job *chandragen.JobConfig, verbose bool) {
	fmt.Fprintf(env.Stdout, "ok %s\n", job)
	if !verbose {
		return
	}
	fmt.Fprintf(env.Stdout, "   formatters: %s\n", strings.Join(job.Pipeline.Names(), ", "))
	if job.Interval != nil {
		fmt.Fprintf(env.Stdout, "   interval:   %v\n", job.Interval)
	}
}
