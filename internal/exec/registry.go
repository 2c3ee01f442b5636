package exec

import "github.com/spk121/posh/internal/frame"

// BuiltinFunc is one builtin command's implementation. ex gives a
// builtin access to the executor for callbacks that must re-enter
// execution (eval, exec);
// argv[0] is the command name as invoked.
type BuiltinFunc func(ex *Executor, fr *frame.Frame, argv []string) int

// Registry maps builtin names to implementations, mirroring the
// teacher's builtins.Registry/RegisterAll split: internal/builtin
// populates DefaultRegistry from its own init(), so this package never
// imports internal/builtin and no cycle forms.
type Registry struct {
	funcs map[string]BuiltinFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]BuiltinFunc)}
}

// Register installs or replaces name's implementation.
func (r *Registry) Register(name string, fn BuiltinFunc) {
	r.funcs[name] = fn
}

// Lookup returns name's implementation, if any.
func (r *Registry) Lookup(name string) (BuiltinFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns every registered builtin name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, name)
	}
	return out
}

// DefaultRegistry is the registry internal/builtin's init() populates
// and command resolution consults unless an Executor was built with a
// different one via NewWithRegistry.
var DefaultRegistry = NewRegistry()
