package config

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/cronspec"
	"github.com/thanosengine/ChandraGen/internal/discovery"
)

// ErrExpand is returned when a directory or glob entry cannot be expanded.
var ErrExpand = errors.New("expanding entry")

// Plan is the configuration turned into resolver input.
type Plan struct {
	Defaults chandragen.Defaults
	Entries  map[string]chandragen.Entry
}

// Plan builds resolver input from the config. Entries whose input path is
// a directory or glob are expanded into one entry per discovered file,
// named "<entry>/<relative path>" and sharing the block's overrides.
// Expansion failures are collected; the entries that did expand are still
// returned.
func (c *Config) Plan() (*Plan, error) {
	defaults, err := c.defaults()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Defaults: defaults, Entries: make(map[string]chandragen.Entry)}

	ids := make([]string, 0, len(c.Entries))
	for id := range c.Entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		ec := c.Entries[id]
		entry, err := ec.entry()
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %s: %w", id, err))
			continue
		}

		input := firstNonEmpty(ec.InputPath, defaults.InputPath)
		input = expandName(input, id)
		if input == "" || !discovery.NeedsExpansion(input) {
			plan.Entries[id] = entry
			continue
		}

		outputDir := expandName(firstNonEmpty(ec.OutputPath, defaults.OutputPath), id)
		files, err := discovery.Discover(input, outputDir, ec.Recursive)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrExpand, id, err))
			continue
		}
		for _, f := range files {
			child := entry
			child.Group = id
			child.InputPath = f.InputPath
			child.OutputPath = f.OutputPath
			plan.Entries[path.Join(id, f.RelPath)] = child
		}
	}

	return plan, errors.Join(errs...)
}

func (c *Config) defaults() (chandragen.Defaults, error) {
	d := c.Defaults
	var interval chandragen.Interval
	if d.Interval != "" {
		iv, err := cronspec.Parse(d.Interval)
		if err != nil {
			return chandragen.Defaults{}, fmt.Errorf("defaults: %w", err)
		}
		interval = iv
	}
	return chandragen.Defaults{
		Formatters:          d.Formatters,
		InputPath:           d.InputPath,
		OutputPath:          d.OutputPath,
		PreformattedColumns: d.PreformattedColumns,
		Flags:               chandragen.FlagSet(d.Flags),
		Heading:             d.Heading,
		HeadingEndPattern:   d.HeadingEndPattern,
		HeadingStripOffset:  d.HeadingStripOffset,
		Footing:             d.Footing,
		Interval:            interval,
	}, nil
}

func (e EntryConfig) entry() (chandragen.Entry, error) {
	out := chandragen.Entry{
		Formatters:          e.Formatters,
		Blacklist:           e.FormatterBlacklist,
		InputPath:           e.InputPath,
		OutputPath:          e.OutputPath,
		PreformattedColumns: e.PreformattedColumns,
		Flags:               chandragen.FlagSet(e.Flags),
		Heading:             e.Heading,
		HeadingEndPattern:   e.HeadingEndPattern,
		HeadingStripOffset:  e.HeadingStripOffset,
		Footing:             e.Footing,
	}
	if e.Interval != "" {
		iv, err := cronspec.Parse(e.Interval)
		if err != nil {
			return chandragen.Entry{}, err
		}
		out.Interval = iv
	}
	return out, nil
}

func expandName(p, id string) string {
	return strings.ReplaceAll(p, chandragen.NamePlaceholder, id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
