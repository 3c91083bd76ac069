package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/config"
	"github.com/thanosengine/ChandraGen/internal/cronspec"
)

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unknown formatter", &chandragen.UnknownFormatterError{Name: "strip_jsx"}, "strip_jsx_tags"},
		{"heading boundary", &chandragen.JobError{Job: "a", Err: &chandragen.HeadingBoundaryNotFoundError{Pattern: "^---$"}}, "^---$"},
		{"config not found", fmt.Errorf("%w: x.toml", config.ErrConfigNotFound), "--config"},
		{"table", &chandragen.JobError{Job: "a", Formatter: "table_to_unicode", Err: &chandragen.TableFormatError{Line: 3}}, "cells"},
		{"codeblock", &chandragen.CodeblockFormatError{Line: 1}, "fence"},
		{"interval", fmt.Errorf("%w: bad", cronspec.ErrInvalidInterval), "@every"},
		{"write", &chandragen.JobError{Job: "a", Err: chandragen.ErrWriteOutput}, "writable"},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, env.Environment)
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestHintFor_None(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if got := hintFor(errors.New("boom"), env.Environment); got != "" {
		t.Errorf("hintFor() = %q, want empty", got)
	}
}

func TestReportProblems(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	var buf bytes.Buffer
	reportProblems(&buf, []error{
		&chandragen.UnknownFormatterError{Entry: "a", Name: "table_to_unicod"},
		&chandragen.MissingRequiredFieldError{Entry: "b", Field: "input_path"},
	}, env.Environment)

	out := buf.String()
	if !strings.HasPrefix(out, "2 configuration problem(s):\n") {
		t.Errorf("missing header: %q", out)
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("expected header plus one line per problem, got %d lines: %q", n, out)
	}
	if !strings.Contains(out, "did you mean table_to_unicode") {
		t.Errorf("missing hint: %q", out)
	}
}
