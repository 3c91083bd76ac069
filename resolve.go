package chandragen

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/thanosengine/ChandraGen/internal/formatters"
)

// Field names used in resolution errors.
const (
	FieldInputPath          = "input_path"
	FieldOutputPath         = "output_path"
	FieldHeadingEndPattern  = "heading_end_pattern"
	FieldHeadingStripOffset = "heading_strip_offset"
	FieldColumns            = "preformatted_text_columns"
)

// NamePlaceholder is replaced by the entry ID in path templates.
const NamePlaceholder = "{name}"

// Defaults is the base every entry is resolved against.
type Defaults struct {
	Formatters          []string
	InputPath           string
	OutputPath          string // may contain {name}
	PreformattedColumns int    // 0 leaves the formatter default
	Flags               FlagSet
	Heading             string
	HeadingEndPattern   string
	HeadingStripOffset  int
	Footing             string
	Interval            Interval
}

// Entry is one configured document. Pointer fields distinguish "not set"
// (inherit the default) from an explicit empty value.
type Entry struct {
	// Group is the configuration block the entry came from when it was
	// expanded from a directory or glob. Empty means the entry is its own group.
	Group string

	Formatters          []string
	Blacklist           []string
	InputPath           string
	OutputPath          string
	PreformattedColumns int
	Flags               FlagSet
	Heading             *string
	HeadingEndPattern   *string
	HeadingStripOffset  *int
	Footing             *string
	Interval            Interval
}

// Stage is one resolved pipeline step.
type Stage struct {
	Name string
	Fn   FormatterFunc
}

// PipelineSpec is an ordered list of resolved stages.
type PipelineSpec []Stage

// Names returns the stage names in order.
func (p PipelineSpec) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

// JobConfig is a fully resolved entry. It is never modified after Resolve returns it.
type JobConfig struct {
	ID                 string
	Entry              string
	InputPath          string
	OutputPath         string
	Pipeline           PipelineSpec
	Flags              FlagSet
	Heading            string
	HeadingEndPattern  *regexp.Regexp
	HeadingStripOffset int
	Footing            string
	Interval           Interval
}

// Resolve turns defaults and entries into job configurations. Entries are
// processed in ID order, so equal inputs always give equal outputs. An entry
// that fails does not prevent the others from resolving: the valid jobs are
// returned together with a *ResolveError listing every failure.
func Resolve(reg *Registry, defaults Defaults, entries map[string]Entry) ([]*JobConfig, error) {
	if errs := checkDefaults(reg, defaults); len(errs) > 0 {
		return nil, &ResolveError{Errs: errs}
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	jobs := make([]*JobConfig, 0, len(ids))
	var errs []error
	for _, id := range ids {
		job, entryErrs := resolveEntry(reg, defaults, id, entries[id])
		if len(entryErrs) > 0 {
			errs = append(errs, entryErrs...)
			continue
		}
		jobs = append(jobs, job)
	}

	if len(errs) > 0 {
		return jobs, &ResolveError{Errs: errs}
	}
	return jobs, nil
}

func checkDefaults(reg *Registry, d Defaults) []error {
	var errs []error
	for _, name := range d.Formatters {
		if !reg.Has(name) {
			errs = append(errs, &UnknownFormatterError{Name: name})
		}
	}
	if d.PreformattedColumns < 0 {
		errs = append(errs, &InvalidFieldError{Field: FieldColumns, Reason: "must not be negative"})
	}
	return errs
}

func resolveEntry(reg *Registry, d Defaults, id string, e Entry) (*JobConfig, []error) {
	var errs []error

	names, nameErrs := mergeFormatterNames(reg, id, d.Formatters, e.Formatters, e.Blacklist)
	errs = append(errs, nameErrs...)

	job := &JobConfig{
		ID:                 id,
		Entry:              id,
		InputPath:          expandName(firstNonEmpty(e.InputPath, d.InputPath), id),
		OutputPath:         expandName(firstNonEmpty(e.OutputPath, d.OutputPath), id),
		Heading:            valueOr(e.Heading, d.Heading),
		HeadingStripOffset: valueOr(e.HeadingStripOffset, d.HeadingStripOffset),
		Footing:            valueOr(e.Footing, d.Footing),
		Interval:           d.Interval,
	}
	if e.Group != "" {
		job.Entry = e.Group
	}
	if e.Interval != nil {
		job.Interval = e.Interval
	}

	if job.InputPath == "" {
		errs = append(errs, &MissingRequiredFieldError{Entry: id, Field: FieldInputPath})
	}
	if job.OutputPath == "" {
		errs = append(errs, &MissingRequiredFieldError{Entry: id, Field: FieldOutputPath})
	}
	if job.HeadingStripOffset < 0 {
		errs = append(errs, &InvalidFieldError{Entry: id, Field: FieldHeadingStripOffset, Reason: "must not be negative"})
	}
	if e.PreformattedColumns < 0 {
		errs = append(errs, &InvalidFieldError{Entry: id, Field: FieldColumns, Reason: "must not be negative"})
	}

	if pattern := valueOr(e.HeadingEndPattern, d.HeadingEndPattern); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, &InvalidFieldError{Entry: id, Field: FieldHeadingEndPattern, Reason: err.Error()})
		}
		job.HeadingEndPattern = re
	}

	if len(errs) > 0 {
		return nil, errs
	}

	job.Pipeline = bindStages(reg, names)
	job.Flags = mergeFlags(d, e)
	return job, nil
}

// mergeFormatterNames applies append-then-blacklist and checks the result.
func mergeFormatterNames(reg *Registry, id string, base, add, blacklist []string) ([]string, []error) {
	var errs []error
	for _, name := range slices.Concat(add, blacklist) {
		if !reg.Has(name) {
			errs = append(errs, &UnknownFormatterError{Entry: id, Name: name})
		}
	}

	names := slices.Concat(base, add)
	names = slices.DeleteFunc(names, func(name string) bool {
		return slices.Contains(blacklist, name)
	})

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			errs = append(errs, &DuplicateFormatterError{Entry: id, Name: name})
			continue
		}
		seen[name] = true
	}
	return names, errs
}

func bindStages(reg *Registry, names []string) PipelineSpec {
	stages := make(PipelineSpec, len(names))
	for i, name := range names {
		fn, _ := reg.Lookup(name)
		stages[i] = Stage{Name: name, Fn: fn}
	}
	return stages
}

// mergeFlags layers defaults flags, the defaults column width, entry flags
// and the entry column width, later layers winning.
func mergeFlags(d Defaults, e Entry) FlagSet {
	base := FlagSet{}.Merge(d.Flags)
	if d.PreformattedColumns > 0 {
		base[formatters.FlagPreformattedColumns] = d.PreformattedColumns
	}
	flags := base.Merge(e.Flags)
	if e.PreformattedColumns > 0 {
		flags[formatters.FlagPreformattedColumns] = e.PreformattedColumns
	}
	return flags
}

func expandName(path, id string) string {
	return strings.ReplaceAll(path, NamePlaceholder, id)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func valueOr[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}

// ErrorsFor returns the resolution errors that belong to entry id.
func (e *ResolveError) ErrorsFor(id string) []error {
	var out []error
	for _, err := range e.Errs {
		if entryOf(err) == id {
			out = append(out, err)
		}
	}
	return out
}

func entryOf(err error) string {
	switch e := err.(type) {
	case *UnknownFormatterError:
		return e.Entry
	case *DuplicateFormatterError:
		return e.Entry
	case *MissingRequiredFieldError:
		return e.Entry
	case *InvalidFieldError:
		return e.Entry
	default:
		return ""
	}
}

// String formats the job for logs.
func (j *JobConfig) String() string {
	return fmt.Sprintf("%s (%s -> %s)", j.ID, j.InputPath, j.OutputPath)
}
