// Package exec implements spec.md §4.3's Executor: the AST walker that
// resolves and runs each ast.Node kind against a frame.Frame, applying
// redirections, orchestrating pipelines, and propagating the
// frame.ControlFlow signal that break/continue/return/exit use.
package exec

import (
	"io"
	"os"
	"sync"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/frame"
)

// Executor walks an AST against a frame stack. It is safe to reuse
// across top-level list items of the same shell session; it is not
// safe to share between unrelated shells since Jobs and the last
// background pid are shell-wide state.
type Executor struct {
	Registry *Registry
	Jobs     *frame.JobStore

	mu        sync.Mutex
	lastBgPID int
}

// New creates an Executor using the default builtin registry.
func New() *Executor {
	return &Executor{Registry: DefaultRegistry, Jobs: frame.NewJobStore()}
}

// NewWithRegistry creates an Executor using a caller-supplied registry,
// for tests that want a builtin set smaller than DefaultRegistry's.
func NewWithRegistry(r *Registry) *Executor {
	return &Executor{Registry: r, Jobs: frame.NewJobStore()}
}

// Run dispatches node against fr by type switch over every ast.Node
// kind (spec.md §4.3 "AST node kinds handled"), updating fr.LastExitStatus
// as a side effect the way $? is updated in a real shell, and returning
// whatever control-flow signal propagates out of it.
func (ex *Executor) Run(fr *frame.Frame, node ast.Node) frame.ControlFlow {
	switch n := node.(type) {
	case nil:
		return frame.Ok
	case *ast.List:
		return ex.runList(fr, n)
	case *ast.AndOr:
		return ex.runAndOr(fr, n)
	case *ast.Pipeline:
		return ex.runPipelineNode(fr, n)
	case *ast.SimpleCommand:
		return ex.runSimpleCommand(fr, n)
	case *ast.Subshell:
		return ex.runSubshell(fr, n)
	case *ast.BraceGroup:
		return ex.runBraceGroup(fr, n)
	case *ast.If:
		return ex.runIf(fr, n)
	case *ast.Loop:
		return ex.runLoop(fr, n)
	case *ast.For:
		return ex.runFor(fr, n)
	case *ast.Case:
		return ex.runCase(fr, n)
	case *ast.FuncDef:
		return ex.runFuncDef(fr, n)
	default:
		return frame.ControlFlow{Kind: frame.CFNotImpl}
	}
}

// isInterrupt reports whether cf must stop whatever sequential
// construct is iterating (List, AndOr's chain, a loop/case body) rather
// than being treated as an ordinary completed command. CFFunctionStored
// is deliberately excluded: a function definition's "result" is purely
// informational (for an interactive caller to report), not a signal
// that should abort the list containing it.
func isInterrupt(cf frame.ControlFlow) bool {
	switch cf.Kind {
	case frame.CFBreak, frame.CFContinue, frame.CFReturn, frame.CFExit, frame.CFError, frame.CFNotImpl:
		return true
	default:
		return false
	}
}

func (ex *Executor) stdout(fr *frame.Frame) io.Writer {
	if f, ok := fr.Files.Get(1); ok {
		return f
	}
	return os.Stdout
}

func (ex *Executor) stderr(fr *frame.Frame) io.Writer {
	if f, ok := fr.Files.Get(2); ok {
		return f
	}
	return os.Stderr
}

// runTrapAction is the trap.Executor callback internal/trap's
// RunPending/RunExitTrap invoke: trapFrame has already been pushed as a
// KindTrap frame, so running action here just means parsing and
// executing it in place.
func (ex *Executor) runTrapAction(trapFrame *frame.Frame, action string) int {
	_, status := ex.RunString(trapFrame, action)
	return status
}

func (ex *Executor) lastBackgroundPID() int {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.lastBgPID
}

func (ex *Executor) setLastBackgroundPID(id int) {
	ex.mu.Lock()
	ex.lastBgPID = id
	ex.mu.Unlock()
}

func boolToStatus(failed bool) int {
	if failed {
		return 0
	}
	return 1
}
