package main

// Notes:
// - runMain: we test dispatch and exit codes end to end against a config in
//   t.TempDir(). Crontab mode is exercised through runRun with a cancelled
//   context, since runMain owns its own signal context.
// - maxprocs: setMaxProcs is called but its effect is not asserted.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	chandragen "github.com/thanosengine/ChandraGen"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

type testEnvironment struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnvironment {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &testEnvironment{
		Environment: &Environment{
			Now:      func() time.Time { return time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC) },
			Stdout:   &stdout,
			Stderr:   &stderr,
			Registry: chandragen.DefaultRegistry(),
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// writeFile creates name under dir and returns its slash path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return filepath.ToSlash(path)
}

// capsuleConfig writes a config converting dir/content/{name}.md to
// dir/public/{name}.gmi and returns its path.
func capsuleConfig(t *testing.T, dir, entries string) string {
	t.Helper()
	root := filepath.ToSlash(dir)
	body := `
[system]
scheduler_mode = "oneshot"
workers = 2
log_level = "error"

[defaults]
formatters = ["normalize_line_endings", "convert_bullet_point_links", "table_to_unicode"]
input_path = "` + root + `/content/{name}.md"
output_path = "` + root + `/public/{name}.gmi"
` + entries
	return writeFile(t, dir, "chandragen.toml", body)
}

const goodPage = "# Links\n\n- [Example](https://example.com)\n"

const brokenTable = "| a | b |\n|---|---|\n| 1 |\n"

// ---------------------------------------------------------------------------
// TestRunMain_Commands - Dispatch of simple commands
// ---------------------------------------------------------------------------

func TestRunMain_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"chandragen", "version"}, ExitSuccess, "chandragen " + Version, ""},
		{"help", []string{"chandragen", "help"}, ExitSuccess, "Commands:", ""},
		{"help run", []string{"chandragen", "help", "run"}, ExitSuccess, "--mode", ""},
		{"unknown command", []string{"chandragen", "publish"}, ExitUsage, "", "Unknown command: publish"},
		{"run bad flag", []string{"chandragen", "run", "--nope"}, ExitUsage, "", "invalid usage"},
		{"run help flag", []string{"chandragen", "run", "--help"}, ExitSuccess, "Usage: chandragen run", ""},
		{"formatters bad kind", []string{"chandragen", "formatters", "--kind", "rst"}, ExitUsage, "", "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", env.stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Oneshot - Job execution and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_OneshotSuccess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "content/index.md", goodPage)
	writeFile(t, dir, "content/about.md", "# About\n")
	cfg := capsuleConfig(t, dir, "[entries.index]\n[entries.about]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "-c", cfg}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr)
	}

	got, err := os.ReadFile(filepath.Join(dir, "public", "index.gmi"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(got), "=> https://example.com Example") {
		t.Errorf("output = %q, want converted link line", got)
	}
	if !strings.Contains(env.stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q, want summary", env.stdout)
	}
}

func TestRunMain_OneshotPartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "content/a.md", goodPage)
	writeFile(t, dir, "content/b.md", brokenTable)
	writeFile(t, dir, "content/c.md", goodPage)
	cfg := capsuleConfig(t, dir, "[entries.a]\n[entries.b]\n[entries.c]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "run", "--config", cfg}, env.Environment)
	if code != ExitGeneral {
		t.Fatalf("runMain() = %d, want %d", code, ExitGeneral)
	}

	for _, name := range []string{"a", "c"} {
		if _, err := os.Stat(filepath.Join(dir, "public", name+".gmi")); err != nil {
			t.Errorf("output for %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "public", "b.gmi")); !os.IsNotExist(err) {
		t.Errorf("failing job wrote output: %v", err)
	}

	stderr := env.stderr.String()
	if !strings.Contains(stderr, "FAILED b") {
		t.Errorf("stderr = %q, want FAILED b", stderr)
	}
	if !strings.Contains(stderr, "hint:") {
		t.Errorf("stderr = %q, want table hint", stderr)
	}
}

func TestRunMain_UnknownFormatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "content/a.md", goodPage)
	writeFile(t, dir, "content/b.md", goodPage)
	cfg := capsuleConfig(t, dir, "[entries.a]\nformatters = [\"table_to_unicod\"]\n[entries.b]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "-q", "-c", cfg}, env.Environment)
	if code != ExitUsage {
		t.Fatalf("runMain() = %d, want %d", code, ExitUsage)
	}
	if _, err := os.Stat(filepath.Join(dir, "public", "b.gmi")); err != nil {
		t.Errorf("valid entry should still run: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "did you mean table_to_unicode") {
		t.Errorf("stderr = %q, want suggestion", env.stderr)
	}
}

func TestRunMain_MissingConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.toml")
	code := runMain([]string{"chandragen", "-c", missing}, env.Environment)
	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want hint", env.stderr)
	}
}

func TestRunMain_InvalidOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := capsuleConfig(t, dir, "[entries.a]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "-c", cfg, "--mode", "crontab", "--tick", "5m"}, env.Environment)
	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestRunRun_Crontab - Crontab mode returns once the context ends
// ---------------------------------------------------------------------------

func TestRunRun_CrontabStopsOnCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "content/a.md", goodPage)
	cfg := capsuleConfig(t, dir, "[entries.a]\ninterval = \"@hourly\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := newTestEnv(t)
	done := make(chan error, 1)
	go func() { done <- runRun(ctx, []string{"-c", cfg, "-m", "crontab", "--tick", "1s"}, env.Environment) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runRun() unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("crontab run did not stop after cancellation")
	}
}

// ---------------------------------------------------------------------------
// TestRunCheck - Configuration check without conversion
// ---------------------------------------------------------------------------

func TestRunCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := capsuleConfig(t, dir, "[entries.index]\n[entries.about]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "check", "-v", "-c", cfg}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr)
	}

	out := env.stdout.String()
	for _, want := range []string{"ok about", "ok index", "2 job(s) ok", "convert_bullet_point_links"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, want substring %q", out, want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "public")); !os.IsNotExist(err) {
		t.Error("check must not write output")
	}
}

func TestRunCheck_Problems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := capsuleConfig(t, dir, "[entries.index]\nformatters = [\"nope\"]\n")

	env := newTestEnv(t)
	code := runMain([]string{"chandragen", "check", "-c", cfg}, env.Environment)
	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(env.stderr.String(), "1 configuration problem(s)") {
		t.Errorf("stderr = %q", env.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunFormatters - Registry listing
// ---------------------------------------------------------------------------

func TestRunFormatters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", nil, []string{"table_to_unicode", "strip_jsx_tags", "md,mdx"}, nil},
		{"md only", []string{"--kind", "md"}, []string{"table_to_unicode"}, []string{"strip_jsx_tags"}},
		{"mdx only", []string{"-k", "mdx"}, []string{"strip_jsx_tags", "table_to_unicode"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			if err := runFormatters(tt.args, env.Environment); err != nil {
				t.Fatalf("runFormatters() unexpected error: %v", err)
			}
			out := env.stdout.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q", w)
				}
			}
		})
	}
}
