package exec

import (
	"io"
	"os"

	"github.com/spk121/posh/internal/frame"
)

// VariableStore is the local-overlay-aware counterpart of
// frame.VariableStore's method set, exported so internal/builtin's
// export/unset/read can read, write, and enumerate whichever
// store (or function-local overlay) is currently in scope for a frame.
type VariableStore interface {
	Get(name string) (*frame.Variable, bool)
	Set(name, value string) error
	Unset(name string) error
	SetExported(name string, exported bool)
	SetReadOnly(name string)
	Range(f func(*frame.Variable))
}

// VarTarget returns the store variable reads/writes for fr should go
// through: the local overlay inside a function frame that declared
// locals, otherwise the frame's own variable store directly.
func VarTarget(fr *frame.Frame) VariableStore {
	if fr.Locals != nil {
		return fr.Locals
	}
	return fr.Variables
}

// LookPath resolves name against $PATH the same way command dispatch
// does.
func LookPath(fr *frame.Frame, name string) (string, error) {
	return lookPath(fr, name)
}

// EnvironFor projects fr's currently visible exported variables into a
// child-process environment slice, exported for internal/builtin.
func EnvironFor(fr *frame.Frame) []string {
	return environFor(fr)
}

// ExtraFilesFor builds the os/exec ExtraFiles slice from fr's fds 3 and
// up, exported for internal/builtin.
func ExtraFilesFor(fr *frame.Frame) []*os.File {
	return extraFiles(fr)
}

// RunExternal resolves words[0] on $PATH and runs it as an external
// process against fr's current file table, exported for the `exec`
// builtin's direct command-replacement semantics.
func (ex *Executor) RunExternal(fr *frame.Frame, words []string) int {
	_, status := ex.runExternal(fr, words)
	return status
}

// RunExternalDetectENOEXEC behaves like RunExternal but additionally
// reports whether the failure was ENOEXEC, exported for the `exec`
// builtin's shebang-less-script shell fallback.
func (ex *Executor) RunExternalDetectENOEXEC(fr *frame.Frame, words []string) (status int, enoexec bool) {
	return ex.runExternalDetectENOEXEC(fr, words)
}

// Stdout returns fr's current fd 1, or the process's own stdout if fr
// has none bound, exported for internal/builtin.
func (ex *Executor) Stdout(fr *frame.Frame) io.Writer { return ex.stdout(fr) }

// Stderr returns fr's current fd 2, exported for internal/builtin.
func (ex *Executor) Stderr(fr *frame.Frame) io.Writer { return ex.stderr(fr) }

// SetLastBackgroundPID sets the value $! reports, the same value that
// backgrounding done through internal/exec records.
func (ex *Executor) SetLastBackgroundPID(id int) { ex.setLastBackgroundPID(id) }
