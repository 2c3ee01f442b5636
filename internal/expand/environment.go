// Package expand implements the word expander of spec.md §4.2: tilde,
// parameter, command, and arithmetic expansion, followed by field
// splitting and pathname expansion, all driven off a token.Word's Parts
// and "needs" flags.
package expand

// Environment is the read/write surface the expander needs from the
// current frame: variable and positional-parameter lookup, the
// command-substitution and tilde-resolution callbacks the expander
// cannot implement itself since they reach outside this package
// (spec.md §4.2 "Input: a Token + read access to the current frame's
// variable store, positional params, function for command substitution,
// tilde-to-path resolver").
type Environment interface {
	// GetVar returns a shell variable's value, or "" and false if unset.
	GetVar(name string) (string, bool)
	// SetVar assigns value to name, erroring if name is read-only. Used
	// by the ${var:=word} assign-if-unset operator.
	SetVar(name, value string) error
	// IsReadOnly reports whether name is read-only, for ${var:?msg}-style
	// diagnostics that must not attempt the write at all.
	IsReadOnly(name string) bool

	// Positional returns the current $1.. values.
	Positional() []string
	// Arg0 returns $0.
	Arg0() string

	// IFS returns the current value of $IFS and whether it is set; when
	// unset it returns "" and false, and field splitting then uses the
	// default " \t\n" (spec.md §4.2 "Field splitting").
	IFS() (value string, isSet bool)

	// LastExitStatus returns $?.
	LastExitStatus() int
	// ShellPID returns $$.
	ShellPID() int
	// LastBackgroundPID returns $!, or 0 if no background job has run yet.
	LastBackgroundPID() int
	// OptionFlags returns the current value of $- (concatenated single
	// character option flags).
	OptionFlags() string

	// RunCommandSubst executes body as a command-substitution subshell
	// and returns its captured stdout unchanged; ExpandWord strips the
	// trailing newlines (spec.md §4.2 step iii).
	RunCommandSubst(body string) (string, error)

	// EvalArith evaluates expr as a signed 64-bit C-precedence
	// expression against this environment's variables, assigning back
	// through SetVar for any "=" operators it contains.
	EvalArith(expr string) (int64, error)

	// ResolveTilde resolves a tilde-prefix user name ("" for the
	// invoking user) to a home directory, or reports false if it cannot
	// be resolved (spec.md §4.2 step i).
	ResolveTilde(user string) (string, bool)
}
