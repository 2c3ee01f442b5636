package frame

import "github.com/spk121/posh/internal/ast"

// FunctionStore maps function names to their defining body (spec.md
// §4.3 "Function definition stores the body in the current frame's
// function store under the name").
type FunctionStore struct {
	funcs map[string]ast.Node
}

// NewFunctionStore creates an empty store.
func NewFunctionStore() *FunctionStore {
	return &FunctionStore{funcs: make(map[string]ast.Node)}
}

// Define installs or replaces a function body.
func (s *FunctionStore) Define(name string, body ast.Node) {
	s.funcs[name] = body
}

// Get returns a function's body.
func (s *FunctionStore) Get(name string) (ast.Node, bool) {
	b, ok := s.funcs[name]
	return b, ok
}

// Unset removes a function definition (the `unset -f` case).
func (s *FunctionStore) Unset(name string) {
	delete(s.funcs, name)
}

// Names returns every defined function name.
func (s *FunctionStore) Names() []string {
	out := make([]string, 0, len(s.funcs))
	for name := range s.funcs {
		out = append(out, name)
	}
	return out
}

// Clone performs the COPY used by subshells; bodies are reference types
// (AST nodes) so only the name→body map itself is duplicated.
func (s *FunctionStore) Clone() *FunctionStore {
	clone := NewFunctionStore()
	for name, body := range s.funcs {
		clone.funcs[name] = body
	}
	return clone
}
