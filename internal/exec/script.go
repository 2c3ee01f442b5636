package exec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
	"github.com/spk121/posh/internal/shellerr"
	"github.com/spk121/posh/internal/trap"
)

// RunString parses src as a complete program and runs it against fr,
// the common entry point for eval, dot-scripts, trap actions, and the
// command-substitution fallback when a frame-adapter isn't already in
// hand. It reports fr.LastExitStatus after running, for callers (like
// the `eval` builtin) that just want a status code.
func (ex *Executor) RunString(fr *frame.Frame, src string) (frame.ControlFlow, int) {
	lx := lexer.New(src)
	p := parser.New(lx)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(ex.stderr(fr), errs[0])
		fr.LastExitStatus = shellerr.CategorySyntax.ExitStatus()
		return frame.Ok, fr.LastExitStatus
	}
	cf := ex.Run(fr, prog)
	return cf, fr.LastExitStatus
}

// RunTopLevel runs node against fr, the root frame of a whole shell
// invocation, and then runs the EXIT trap exactly once before reporting
// the final status — the one frame.Policy.TrapsExitTrapRuns case this
// package otherwise never reaches on its own, since every other caller
// (runSubshell, runBackground, runCommandSubst) already runs the trap
// itself when popping its own frame. Callers driving a whole script or
// interactive session (cmd/posh's run command) should call this instead
// of Run directly so "trap ... EXIT" fires on ordinary completion and on
// exit N alike.
func (ex *Executor) RunTopLevel(fr *frame.Frame, node ast.Node) int {
	ex.Run(fr, node)
	trap.RunExitTrap(fr, ex.runTrapAction)
	return fr.LastExitStatus
}

// runCommandSubst implements expand.Environment.RunCommandSubst: body
// runs as a subshell frame with stdout captured through a pipe rather
// than whatever fd the caller's frame currently has at 1 (spec.md §4.2
// step iii, "$(...) / `...` capture stdout"). The captured text keeps
// its trailing newlines; ExpandWord strips them per spec.md's rule, not
// this function.
func (ex *Executor) runCommandSubst(fr *frame.Frame, body string) (string, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	sub := fr.Push(frame.KindSubshell)
	sub.Files.Set(1, w)

	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&out, r)
		close(done)
	}()

	lx := lexer.New(body)
	p := parser.New(lx)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(ex.stderr(fr), errs[0])
		sub.LastExitStatus = shellerr.CategorySyntax.ExitStatus()
	} else {
		ex.Run(sub, prog)
	}

	w.Close()
	<-done
	r.Close()
	trap.RunExitTrap(sub, ex.runTrapAction)
	sub.Pop()

	return out.String(), nil
}
