package chandragen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thanosengine/ChandraGen/internal/formatters"
)

// Sentinel errors for library operations.
var (
	ErrUnknownFormatter   = errors.New("unknown formatter")
	ErrDuplicateFormatter = errors.New("duplicate formatter")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidField       = errors.New("invalid field")
	ErrHeadingBoundary    = errors.New("heading boundary not found")
	ErrJobFailed          = errors.New("job failed")
	ErrNilJob             = errors.New("job cannot be nil")
	ErrReadInput          = errors.New("reading input failed")
	ErrWriteOutput        = errors.New("writing output failed")

	// Formatter errors, re-exported so callers can match them with errors.Is.
	ErrInvalidFlag     = formatters.ErrInvalidFlag
	ErrTableFormat     = formatters.ErrTableFormat
	ErrCodeblockFormat = formatters.ErrCodeblockFormat
	ErrFrontmatter     = formatters.ErrFrontmatter
)

// defaultsScope names the defaults block in errors not tied to an entry.
const defaultsScope = "defaults"

// Formatter failures carrying positions.
type (
	TableFormatError     = formatters.TableFormatError
	CodeblockFormatError = formatters.CodeblockFormatError
)

// UnknownFormatterError reports a formatter name missing from the registry.
// Entry is empty when the name comes from the defaults list.
type UnknownFormatterError struct {
	Entry string
	Name  string
}

func (e *UnknownFormatterError) Error() string {
	return fmt.Sprintf("%s: %v %q", scope(e.Entry), ErrUnknownFormatter, e.Name)
}

func (e *UnknownFormatterError) Unwrap() error { return ErrUnknownFormatter }

// DuplicateFormatterError reports a name present twice in a resolved pipeline.
type DuplicateFormatterError struct {
	Entry string
	Name  string
}

func (e *DuplicateFormatterError) Error() string {
	return fmt.Sprintf("%s: %v %q", scope(e.Entry), ErrDuplicateFormatter, e.Name)
}

func (e *DuplicateFormatterError) Unwrap() error { return ErrDuplicateFormatter }

// MissingRequiredFieldError reports an entry lacking a mandatory field after
// defaults were applied.
type MissingRequiredFieldError struct {
	Entry string
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %v %s", scope(e.Entry), ErrMissingField, e.Field)
}

func (e *MissingRequiredFieldError) Unwrap() error { return ErrMissingField }

// InvalidFieldError reports a field value that cannot be used.
type InvalidFieldError struct {
	Entry  string
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %v %s: %s", scope(e.Entry), ErrInvalidField, e.Field, e.Reason)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

// HeadingBoundaryNotFoundError reports that no line matched the heading end pattern.
type HeadingBoundaryNotFoundError struct {
	Pattern string
}

func (e *HeadingBoundaryNotFoundError) Error() string {
	return fmt.Sprintf("%v: no line matches %q", ErrHeadingBoundary, e.Pattern)
}

func (e *HeadingBoundaryNotFoundError) Unwrap() error { return ErrHeadingBoundary }

// JobError reports a failed job run. Formatter is empty when the failure
// happened outside a formatter stage (reading, splicing, writing).
type JobError struct {
	Job       string
	Formatter string
	Err       error
}

func (e *JobError) Error() string {
	if e.Formatter != "" {
		return fmt.Sprintf("job %s: formatter %s: %v", e.Job, e.Formatter, e.Err)
	}
	return fmt.Sprintf("job %s: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() []error { return []error{ErrJobFailed, e.Err} }

// ResolveError collects the failures of every entry that could not be resolved.
type ResolveError struct {
	Errs []error
}

func (e *ResolveError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("resolving configuration: %d problem(s):\n  %s", len(e.Errs), strings.Join(msgs, "\n  "))
}

func (e *ResolveError) Unwrap() []error { return e.Errs }

func scope(entry string) string {
	if entry == "" {
		return defaultsScope
	}
	return "entry " + entry
}
