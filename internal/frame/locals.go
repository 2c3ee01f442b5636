package frame

// LocalOverlay implements the "per-frame locals overlay" spec.md §4.3
// mentions for function calls: SHARE-scoped variables normally write
// straight through to the caller's store, but names declared with the
// `local` builtin shadow the caller's variable for the lifetime of the
// function frame and are discarded when it pops.
type LocalOverlay struct {
	parent *VariableStore
	locals *VariableStore
	names  map[string]bool
}

// NewLocalOverlay wraps parent for a function frame.
func NewLocalOverlay(parent *VariableStore) *LocalOverlay {
	return &LocalOverlay{parent: parent, locals: NewVariableStore(), names: make(map[string]bool)}
}

// Declare makes name local to this frame, initialised to value. Shadows
// any same-named variable in parent until the frame pops.
func (o *LocalOverlay) Declare(name, value string) {
	o.names[name] = true
	o.locals.Set(name, value)
}

// Get resolves name, preferring the local overlay.
func (o *LocalOverlay) Get(name string) (*Variable, bool) {
	if o.names[name] {
		return o.locals.Get(name)
	}
	return o.parent.Get(name)
}

// Set writes through the overlay if name is local, else to parent.
func (o *LocalOverlay) Set(name, value string) error {
	if o.names[name] {
		return o.locals.Set(name, value)
	}
	return o.parent.Set(name, value)
}

// Unset removes a local binding, or the parent's variable if not local.
func (o *LocalOverlay) Unset(name string) error {
	if o.names[name] {
		delete(o.names, name)
		return o.locals.Unset(name)
	}
	return o.parent.Unset(name)
}

// SetExported sets the exported flag on whichever store currently holds
// name.
func (o *LocalOverlay) SetExported(name string, exported bool) {
	if o.names[name] {
		o.locals.SetExported(name, exported)
		return
	}
	o.parent.SetExported(name, exported)
}

// SetReadOnly marks whichever store currently holds name read-only.
func (o *LocalOverlay) SetReadOnly(name string) {
	if o.names[name] {
		o.locals.SetReadOnly(name)
		return
	}
	o.parent.SetReadOnly(name)
}

// Range visits parent variables first, then locals (which shadow same
// names for a caller distinguishing by name).
func (o *LocalOverlay) Range(f func(*Variable)) {
	o.parent.Range(func(v *Variable) {
		if !o.names[v.Name] {
			f(v)
		}
	})
	o.locals.Range(f)
}

// Environ projects exported entries into a child-process environment
// slice, the same shape as VariableStore.Environ, with locals shadowing
// same-named parent entries (spec.md §6 "Environment produced").
func (o *LocalOverlay) Environ() []string {
	var env []string
	seen := make(map[string]bool)
	o.locals.Range(func(v *Variable) {
		seen[v.Name] = true
		if v.Exported {
			env = append(env, v.Name+"="+v.Value)
		}
	})
	o.parent.Range(func(v *Variable) {
		if seen[v.Name] {
			return
		}
		if v.Exported {
			env = append(env, v.Name+"="+v.Value)
		}
	})
	return env
}
