// Package builtin implements the shell's reference builtin commands:
// echo, cd, pwd, export, unset, set, shift, read, trap, exit, return,
// break, continue, local, :, true, false, eval, exec, wait, jobs, kill.
// Each builtin is an exec.BuiltinFunc; RegisterAll installs every one of
// them into a given exec.Registry, populating DefaultRegistry by
// category the same way a Registry/RegisterAll split elsewhere in this
// codebase keeps each builtin family in its own file.
package builtin

import "github.com/spk121/posh/internal/exec"

func init() {
	RegisterAll(exec.DefaultRegistry)
}

// RegisterAll registers every builtin this package implements with r.
// Callers that want a smaller builtin set for a test can build their
// own *exec.Registry and call only the category registrars they need.
func RegisterAll(r *exec.Registry) {
	registerCore(r)
	registerEnv(r)
	registerFlow(r)
	registerIO(r)
	registerTrap(r)
	registerJobControl(r)
}
