package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chandragen [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run          Convert configured entries to gemtext (default)")
	fmt.Fprintln(w, "  check        Resolve the configuration without converting")
	fmt.Fprintln(w, "  formatters   List available formatters")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'chandragen help <command>' for details on a specific command.")
}

// printCommonFlags prints flags shared by run and check.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: chandragen)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-level <s>       trace, debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      console, json, pretty")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printRunUsage prints usage for the run command.
func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chandragen run [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert every configured entry to gemtext. In oneshot mode each job")
	fmt.Fprintln(w, "runs once and the exit status reports failures. In crontab mode jobs")
	fmt.Fprintln(w, "run whenever their interval is due until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scheduling:")
	fmt.Fprintln(w, "  -m, --mode <s>            Scheduler mode: oneshot, crontab")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --tick <d>            Crontab tick rate (1s-1m, e.g. 30s)")
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  all jobs succeeded")
	fmt.Fprintln(w, "  1  at least one job failed")
	fmt.Fprintln(w, "  2  invalid flags or configuration")
	fmt.Fprintln(w, "  3  file not found or not accessible")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chandragen check [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load, expand and resolve the configuration, listing every job")
	fmt.Fprintln(w, "and every problem. Nothing is converted.")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printFormattersUsage prints usage for the formatters command.
func printFormattersUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: chandragen formatters [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List registered formatters with the source kinds they apply to.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -k, --kind <s>            Only list formatters for md or mdx")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "run":
		printRunUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "formatters":
		printFormattersUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: chandragen version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: chandragen help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
