package chandragen

import (
	"fmt"
	"slices"
	"sync"

	"github.com/thanosengine/ChandraGen/internal/formatters"
)

// Document kinds a formatter declares support for.
const (
	KindMarkdown = formatters.KindMarkdown
	KindMDX      = formatters.KindMDX
)

// FormatterFunc transforms a whole document. It must not retain text or flags.
type FormatterFunc func(text string, flags FlagSet) (string, error)

// FormatterInfo describes a registered formatter.
type FormatterInfo struct {
	Name        string
	Description string
	Kinds       []string
}

type registered struct {
	info FormatterInfo
	fn   FormatterFunc
}

// Registry maps formatter names to functions. It is built once by
// NewRegistry and never changes afterwards, so it is safe for concurrent use.
type Registry struct {
	order  []string
	byName map[string]registered
}

// RegistryOption configures a Registry under construction.
type RegistryOption func(*registryBuilder)

type registryBuilder struct {
	extra      []registered
	noBuiltins bool
}

// WithFormatter registers an additional formatter. Registering a name twice,
// including a built-in name, makes NewRegistry fail.
func WithFormatter(name, description string, kinds []string, fn FormatterFunc) RegistryOption {
	return func(b *registryBuilder) {
		b.extra = append(b.extra, registered{
			info: FormatterInfo{Name: name, Description: description, Kinds: slices.Clone(kinds)},
			fn:   fn,
		})
	}
}

// WithoutBuiltins starts from an empty registry.
func WithoutBuiltins() RegistryOption {
	return func(b *registryBuilder) { b.noBuiltins = true }
}

// NewRegistry builds a registry holding the built-in formatters plus any
// added with WithFormatter.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	r := &Registry{byName: make(map[string]registered)}
	if !b.noBuiltins {
		for _, bi := range formatters.Builtins() {
			if err := r.add(registered{
				info: FormatterInfo{Name: bi.Name, Description: bi.Description, Kinds: bi.Kinds},
				fn:   adaptBuiltin(bi.Apply),
			}); err != nil {
				return nil, err
			}
		}
	}
	for _, reg := range b.extra {
		if err := r.add(reg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(fmt.Sprintf("chandragen: building default registry: %v", err))
	}
	return r
})

// DefaultRegistry returns the shared registry of built-in formatters.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func (r *Registry) add(reg registered) error {
	if reg.info.Name == "" {
		return fmt.Errorf("%w: formatter name cannot be empty", ErrInvalidField)
	}
	if reg.fn == nil {
		return fmt.Errorf("%w: formatter %q has no function", ErrInvalidField, reg.info.Name)
	}
	if _, exists := r.byName[reg.info.Name]; exists {
		return fmt.Errorf("%w: %q registered twice", ErrDuplicateFormatter, reg.info.Name)
	}
	r.byName[reg.info.Name] = reg
	r.order = append(r.order, reg.info.Name)
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (FormatterFunc, bool) {
	reg, ok := r.byName[name]
	return reg.fn, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Info returns the metadata registered under name.
func (r *Registry) Info(name string) (FormatterInfo, bool) {
	reg, ok := r.byName[name]
	if !ok {
		return FormatterInfo{}, false
	}
	info := reg.info
	info.Kinds = slices.Clone(info.Kinds)
	return info, true
}

// Names returns formatter names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Formatters returns metadata for every formatter in registration order.
func (r *Registry) Formatters() []FormatterInfo {
	out := make([]FormatterInfo, 0, len(r.order))
	for _, name := range r.order {
		info, _ := r.Info(name)
		out = append(out, info)
	}
	return out
}

// Len returns the number of registered formatters.
func (r *Registry) Len() int {
	return len(r.order)
}

func adaptBuiltin(fn formatters.Func) FormatterFunc {
	return func(text string, flags FlagSet) (string, error) {
		return fn(text, flags)
	}
}
