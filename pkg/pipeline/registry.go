package pipeline

import (
	"sort"
	"strings"
)

// Factory instantiates a task with its invocation arguments. Argument
// validation belongs here so that malformed invocations fail while the
// pipeline is still being built.
type Factory func(reg *Registry, args []string) (Middleware, error)

// Spec describes a registered task. Specs are immutable after registration.
type Spec struct {
	Name    string
	Factory Factory
	// Short is the one-line description used in task listings. If empty, the
	// first line of Long is used instead.
	Short string
	// Long is the full documentation text shown by describe.
	Long string
}

// ShortDesc returns the one-line description for listings.
func (s Spec) ShortDesc() string {
	if s.Short != "" {
		return s.Short
	}

	if s.Long != "" {
		return strings.TrimSpace(strings.SplitN(strings.TrimSpace(s.Long), "\n", 2)[0])
	}

	return ""
}

// Registry maps task names to their specs. It is populated once during
// startup and treated as read-only afterwards.
type Registry struct {
	specs map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds the given spec, overwriting any previous registration under
// the same name.
func (r *Registry) Register(spec Spec) {
	r.specs[spec.Name] = spec
}

// Resolve looks up a task by name.
func (r *Registry) Resolve(name string) (Spec, error) {
	spec, found := r.specs[name]
	if !found {
		return Spec{}, &UnknownTaskError{Task: name}
	}

	return spec, nil
}

// Names returns all registered task names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
