package chandragen

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	if reg != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the shared instance")
	}

	for _, name := range []string{"table_to_unicode", "normalize_code_blocks", "strip_jsx_tags", "convert_inline_links"} {
		if !reg.Has(name) {
			t.Errorf("default registry missing %q", name)
		}
	}

	info, ok := reg.Info("strip_jsx_tags")
	if !ok {
		t.Fatal("Info(strip_jsx_tags) not found")
	}
	if len(info.Kinds) != 1 || info.Kinds[0] != KindMDX {
		t.Errorf("strip_jsx_tags kinds = %v, want [mdx]", info.Kinds)
	}
	if len(reg.Formatters()) != reg.Len() {
		t.Error("Formatters() and Len() disagree")
	}
}

func TestNewRegistry_CustomFormatter(t *testing.T) {
	t.Parallel()

	upper := func(text string, _ FlagSet) (string, error) { return strings.ToUpper(text), nil }
	reg, err := NewRegistry(WithFormatter("shout", "Upper-case everything.", []string{KindMarkdown}, upper))
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	fn, ok := reg.Lookup("shout")
	if !ok {
		t.Fatal("Lookup(shout) not found")
	}
	out, err := fn("hi", nil)
	if err != nil || out != "HI" {
		t.Errorf("shout(hi) = %q, %v", out, err)
	}

	names := reg.Names()
	if names[len(names)-1] != "shout" {
		t.Errorf("custom formatter should be registered last, names = %v", names)
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Parallel()

	noop := func(text string, _ FlagSet) (string, error) { return text, nil }

	tests := []struct {
		name    string
		opts    []RegistryOption
		wantErr error
	}{
		{"builtin name reused", []RegistryOption{WithFormatter("table_to_unicode", "", nil, noop)}, ErrDuplicateFormatter},
		{"twice", []RegistryOption{WithoutBuiltins(), WithFormatter("a", "", nil, noop), WithFormatter("a", "", nil, noop)}, ErrDuplicateFormatter},
		{"empty name", []RegistryOption{WithFormatter("", "", nil, noop)}, ErrInvalidField},
		{"nil func", []RegistryOption{WithFormatter("x", "", nil, nil)}, ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRegistry(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_InfoIsACopy(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	info, _ := reg.Info("table_to_unicode")
	info.Kinds[0] = "changed"

	again, _ := reg.Info("table_to_unicode")
	if again.Kinds[0] == "changed" {
		t.Error("Info() exposed the registry's internal slice")
	}
}
