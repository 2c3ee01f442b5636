package exec

import (
	"os"
	"strconv"
	"strings"

	"github.com/spk121/posh/internal/arith"
	"github.com/spk121/posh/internal/frame"
)

// variableStore is the subset of *frame.VariableStore's and
// *frame.LocalOverlay's methods a word-expansion environment needs.
// Both types already satisfy it; it exists so frameEnv can read through
// whichever one a frame currently has without caring which.
type variableStore interface {
	Get(name string) (*frame.Variable, bool)
	Set(name, value string) error
	Unset(name string) error
}

// varTarget returns the store variable reads/writes for fr should go
// through: the local overlay inside a function frame that has one,
// otherwise the frame's own variable store directly.
func varTarget(fr *frame.Frame) variableStore {
	if fr.Locals != nil {
		return fr.Locals
	}
	return fr.Variables
}

// environFor projects fr's currently visible exported variables into a
// child-process environment slice, reading through the local overlay
// when present so a function's locals correctly shadow the caller's.
func environFor(fr *frame.Frame) []string {
	if ep, ok := varTarget(fr).(interface{ Environ() []string }); ok {
		return ep.Environ()
	}
	return nil
}

// frameEnv adapts one frame, plus the executor that can run a command
// substitution subshell, to expand.Environment (spec.md §4.2's
// "Input: ... read access to the current frame's variable store").
type frameEnv struct {
	ex *Executor
	fr *frame.Frame
}

func newFrameEnv(ex *Executor, fr *frame.Frame) *frameEnv {
	return &frameEnv{ex: ex, fr: fr}
}

func (e *frameEnv) GetVar(name string) (string, bool) {
	if name == "?" {
		return strconv.Itoa(e.fr.LastExitStatus), true
	}
	if name == "$" {
		return strconv.Itoa(os.Getpid()), true
	}
	if name == "!" {
		if pid := e.ex.lastBackgroundPID(); pid != 0 {
			return strconv.Itoa(pid), true
		}
		return "", false
	}
	if name == "#" {
		return strconv.Itoa(e.fr.Positional.Count()), true
	}
	if name == "-" {
		return optionFlagString(e.fr.Options), true
	}
	v, ok := varTarget(e.fr).Get(name)
	if !ok {
		return "", false
	}
	return v.Value, true
}

func (e *frameEnv) SetVar(name, value string) error {
	return varTarget(e.fr).Set(name, value)
}

func (e *frameEnv) IsReadOnly(name string) bool {
	v, ok := varTarget(e.fr).Get(name)
	return ok && v.ReadOnly
}

func (e *frameEnv) Positional() []string { return e.fr.Positional.All() }
func (e *frameEnv) Arg0() string         { return e.fr.Positional.Arg0() }

func (e *frameEnv) IFS() (string, bool) {
	v, ok := varTarget(e.fr).Get("IFS")
	if !ok {
		return "", false
	}
	return v.Value, true
}

func (e *frameEnv) LastExitStatus() int    { return e.fr.LastExitStatus }
func (e *frameEnv) ShellPID() int          { return os.Getpid() }
func (e *frameEnv) LastBackgroundPID() int { return e.ex.lastBackgroundPID() }
func (e *frameEnv) OptionFlags() string    { return optionFlagString(e.fr.Options) }

func (e *frameEnv) RunCommandSubst(body string) (string, error) {
	return e.ex.runCommandSubst(e.fr, body)
}

func (e *frameEnv) EvalArith(expr string) (int64, error) {
	return arith.Eval(expr, &arithResolver{env: e})
}

func (e *frameEnv) ResolveTilde(user string) (string, bool) {
	if user != "" {
		return "", false
	}
	if home, ok := e.GetVar("HOME"); ok && home != "" {
		return home, true
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, true
	}
	return "", false
}

type arithResolver struct{ env *frameEnv }

func (r *arithResolver) Get(name string) (string, bool) { return r.env.GetVar(name) }

func (r *arithResolver) Assign(name string, value int64) error {
	return r.env.SetVar(name, strconv.FormatInt(value, 10))
}

var optionFlagTable = []struct {
	opt  frame.Option
	flag byte
}{
	{frame.OptErrexit, 'e'}, {frame.OptNounset, 'u'}, {frame.OptNoglob, 'f'},
	{frame.OptNoclobber, 'C'}, {frame.OptXtrace, 'x'}, {frame.OptAllexport, 'a'},
	{frame.OptNoexec, 'n'}, {frame.OptVerbose, 'v'}, {frame.OptMonitor, 'm'},
	{frame.OptVi, 'V'}, {frame.OptIgnoreeof, 'I'},
}

func optionFlagString(o *frame.OptionSet) string {
	var sb strings.Builder
	for _, f := range optionFlagTable {
		if o.Get(f.opt) {
			sb.WriteByte(f.flag)
		}
	}
	return sb.String()
}
