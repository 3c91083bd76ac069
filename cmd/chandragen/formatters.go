package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	chandragen "github.com/thanosengine/ChandraGen"
)

// runFormatters lists the registered formatters in registration order.
func runFormatters(args []string, env *Environment) error {
	flags, err := parseFormattersFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printFormattersUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	kind := strings.ToLower(strings.TrimSpace(flags.kind))
	if kind != "" && kind != chandragen.KindMarkdown && kind != chandragen.KindMDX {
		return fmt.Errorf("%w: unknown kind %q (must be %s or %s)", ErrUsage, flags.kind, chandragen.KindMarkdown, chandragen.KindMDX)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	for _, info := range env.Registry.Formatters() {
		if kind != "" && !slices.Contains(info.Kinds, kind) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, strings.Join(info.Kinds, ","), info.Description)
	}
	return tw.Flush()
}
