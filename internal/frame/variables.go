package frame

import "fmt"

// Variable is one entry of spec.md §3 "Variable entry": (name, value,
// exported, read-only, generation). Generation is stamped from the
// store's counter on every value change; Environ does not consult it.
type Variable struct {
	Name       string
	Value      string
	Exported   bool
	ReadOnly   bool
	Generation uint64
}

// VariableStore is a typed map of variable entries with scope-clone
// semantics (spec.md §3 "Lifecycle"): Clone performs the COPY used by
// subshells, while SHARE (function calls) is plain pointer aliasing done
// in Frame.Push.
type VariableStore struct {
	vars map[string]*Variable
	gen  uint64
}

// NewVariableStore creates an empty store.
func NewVariableStore() *VariableStore {
	return &VariableStore{vars: make(map[string]*Variable)}
}

// Get returns the named variable, or nil if unset.
func (s *VariableStore) Get(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set creates or updates a variable's value, rejecting the write if the
// existing entry is read-only (spec.md §3 "Read-only entries reject
// value changes").
func (s *VariableStore) Set(name, value string) error {
	if v, ok := s.vars[name]; ok {
		if v.ReadOnly {
			return fmt.Errorf("%s: readonly variable", name)
		}
		v.Value = value
		s.gen++
		v.Generation = s.gen
		return nil
	}
	s.gen++
	s.vars[name] = &Variable{Name: name, Value: value, Generation: s.gen}
	return nil
}

// SetExported sets or clears the exported flag without requiring a value
// change; an unset variable is created empty and exported.
func (s *VariableStore) SetExported(name string, exported bool) {
	v, ok := s.vars[name]
	if !ok {
		v = &Variable{Name: name}
		s.vars[name] = v
	}
	v.Exported = exported
}

// SetReadOnly marks name read-only; future Set/Unset calls on it fail.
func (s *VariableStore) SetReadOnly(name string) {
	v, ok := s.vars[name]
	if !ok {
		v = &Variable{Name: name}
		s.vars[name] = v
	}
	v.ReadOnly = true
}

// Unset removes a variable, rejecting the removal if it is read-only.
func (s *VariableStore) Unset(name string) error {
	if v, ok := s.vars[name]; ok && v.ReadOnly {
		return fmt.Errorf("%s: readonly variable", name)
	}
	delete(s.vars, name)
	return nil
}

// Range calls f for every variable in the store. Iteration order is
// unspecified.
func (s *VariableStore) Range(f func(*Variable)) {
	for _, v := range s.vars {
		f(v)
	}
}

// Clone performs a deep COPY of the store (spec.md §3 "Subshell creation
// clones under COPY semantics"). When exportedOnly is true (background
// job per spec.md §4.4 "variables.copy_exports_only"), only exported
// variables are copied.
func (s *VariableStore) Clone(exportedOnly bool) *VariableStore {
	clone := NewVariableStore()
	clone.gen = s.gen
	for name, v := range s.vars {
		if exportedOnly && !v.Exported {
			continue
		}
		cp := *v
		clone.vars[name] = &cp
	}
	return clone
}

// Environ projects exported entries into a child-process environment
// slice in "NAME=value" form (spec.md §6 "Environment produced").
func (s *VariableStore) Environ() []string {
	var env []string
	for name, v := range s.vars {
		if v.Exported {
			env = append(env, name+"="+v.Value)
		}
	}
	return env
}

// IsValidName reports whether name satisfies spec.md §3's variable-name
// validity rule: nonempty, first byte '_' or a letter, remainder letters,
// digits, or '_'.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	if !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return false
		}
	}
	return true
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
