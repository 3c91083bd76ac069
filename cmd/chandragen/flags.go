package main

import (
	flag "github.com/spf13/pflag"
)

// defaultConfigName is looked up when --config is not given.
const defaultConfigName = "chandragen"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	logLevel  string
	logFormat string
	quiet     bool
	verbose   bool
}

// runFlags holds flags for the run command.
type runFlags struct {
	common  commonFlags
	mode    string
	workers int
	tick    string
}

// formattersFlags holds flags for the formatters command.
type formattersFlags struct {
	kind string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", defaultConfigName, "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json, pretty")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// parseRunFlags parses run command flags and returns positional args.
func parseRunFlags(args []string) (*runFlags, []string, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	f := &runFlags{}

	fs.StringVarP(&f.mode, "mode", "m", "", "scheduler mode: oneshot, crontab")
	fs.IntVarP(&f.workers, "workers", "w", -1, "parallel workers (0 = auto)")
	fs.StringVar(&f.tick, "tick", "", "crontab tick rate (e.g., 30s, 1m)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags.
func parseCheckFlags(args []string) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	f := &commonFlags{}
	addCommonFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseFormattersFlags parses formatters command flags.
func parseFormattersFlags(args []string) (*formattersFlags, error) {
	fs := flag.NewFlagSet("formatters", flag.ContinueOnError)
	f := &formattersFlags{}
	fs.StringVarP(&f.kind, "kind", "k", "", "only list formatters for this source kind: md, mdx")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
