package exec

import (
	"fmt"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/expand"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
	"github.com/spk121/posh/internal/trap"
)

// runWithRedirects applies redirects to fr for the duration of body,
// restoring fr.Files/fr.FDs afterward regardless of how body returns.
// Every compound command shares this shape (spec.md §4.3: a compound
// command's own redirect list applies to its whole body).
func (ex *Executor) runWithRedirects(fr *frame.Frame, redirects []ast.Redirect, body func() frame.ControlFlow) frame.ControlFlow {
	env := newFrameEnv(ex, fr)
	fr.FDs.PushScope()
	undo, err := ex.applyRedirects(fr, redirects, env)
	defer func() {
		ex.undoRedirects(fr, undo)
		fr.FDs.PopScope()
	}()
	if err != nil {
		fmt.Fprintln(ex.stderr(fr), err)
		fr.LastExitStatus = exitStatusOf(err)
		return frame.Ok
	}
	return body()
}

func (ex *Executor) runList(fr *frame.Frame, n *ast.List) frame.ControlFlow {
	for _, item := range n.Items {
		if item.Background {
			ex.runBackground(fr, item.Node)
			fr.LastExitStatus = 0
			continue
		}
		cf := ex.Run(fr, item.Node)
		if isInterrupt(cf) {
			return cf
		}
		trap.RunPending(fr, ex.runTrapAction)
		if fr.Options.Get(frame.OptErrexit) && fr.LastExitStatus != 0 {
			return frame.ControlFlow{Kind: frame.CFExit, Code: fr.LastExitStatus}
		}
	}
	return frame.Ok
}

func (ex *Executor) runAndOr(fr *frame.Frame, n *ast.AndOr) frame.ControlFlow {
	cf := ex.Run(fr, n.First)
	if isInterrupt(cf) {
		return cf
	}
	status := fr.LastExitStatus
	for _, term := range n.Rest {
		run := (term.Op == ast.AndOp && status == 0) || (term.Op == ast.OrOp && status != 0)
		if !run {
			continue
		}
		cf = ex.Run(fr, term.Node)
		if isInterrupt(cf) {
			return cf
		}
		status = fr.LastExitStatus
	}
	fr.LastExitStatus = status
	return frame.Ok
}

func (ex *Executor) runPipelineNode(fr *frame.Frame, n *ast.Pipeline) frame.ControlFlow {
	if len(n.Commands) == 1 {
		cf := ex.Run(fr, n.Commands[0])
		if isInterrupt(cf) {
			return cf
		}
		if n.Negate {
			fr.LastExitStatus = boolToStatus(fr.LastExitStatus != 0)
		}
		return frame.Ok
	}

	orch := fr.Push(frame.KindPipelineOrchestrator)
	statuses := ex.runPipelineMembers(orch, n.Commands)
	orch.Pop()

	status := statuses[len(statuses)-1]
	if fr.Options.Get(frame.OptPipefail) {
		for _, s := range statuses {
			if s != 0 {
				status = s
			}
		}
	}
	if n.Negate {
		status = boolToStatus(status != 0)
	}
	fr.LastExitStatus = status
	return frame.Ok
}

func (ex *Executor) runIf(fr *frame.Frame, n *ast.If) frame.ControlFlow {
	return ex.runWithRedirects(fr, n.Redirects, func() frame.ControlFlow {
		for _, b := range n.Branches {
			cf := ex.Run(fr, b.Cond)
			if isInterrupt(cf) {
				return cf
			}
			if fr.LastExitStatus == 0 {
				return ex.Run(fr, b.Body)
			}
		}
		if n.Else != nil {
			return ex.Run(fr, n.Else)
		}
		fr.LastExitStatus = 0
		return frame.Ok
	})
}

// consumeLoopSignal decides how a Break/Continue signal propagating out
// of a loop body should be handled at this loop level. stop means break
// out of the Go for-loop entirely; cont means move to the next
// iteration; when neither and isLoopSignal is true, forward (with its
// Levels decremented) must be returned to an enclosing loop. Non-loop
// signals (Return, Exit, Error, NotImpl) are reported via isLoopSignal
// =false and must simply be returned as-is.
func consumeLoopSignal(cf frame.ControlFlow) (stop, cont bool, forward frame.ControlFlow, isLoopSignal bool) {
	switch cf.Kind {
	case frame.CFBreak:
		if cf.Levels <= 1 {
			return true, false, frame.Ok, true
		}
		return false, false, frame.ControlFlow{Kind: frame.CFBreak, Levels: cf.Levels - 1}, true
	case frame.CFContinue:
		if cf.Levels <= 1 {
			return false, true, frame.Ok, true
		}
		return false, false, frame.ControlFlow{Kind: frame.CFContinue, Levels: cf.Levels - 1}, true
	default:
		return false, false, cf, false
	}
}

func (ex *Executor) runLoop(fr *frame.Frame, n *ast.Loop) frame.ControlFlow {
	loopFr := fr.Push(frame.KindLoop)
	cf := ex.runWithRedirects(loopFr, n.Redirects, func() frame.ControlFlow {
		status := 0
		for {
			condCf := ex.Run(loopFr, n.Cond)
			if isInterrupt(condCf) {
				return condCf
			}
			truth := loopFr.LastExitStatus == 0
			if n.Kind == ast.LoopUntil {
				truth = !truth
			}
			if !truth {
				break
			}

			bodyCf := ex.Run(loopFr, n.Body)
			status = loopFr.LastExitStatus
			if isInterrupt(bodyCf) {
				stop, cont, forward, isLoop := consumeLoopSignal(bodyCf)
				if !isLoop {
					return bodyCf
				}
				if stop {
					break
				}
				if cont {
					continue
				}
				return forward
			}
		}
		loopFr.LastExitStatus = status
		return frame.Ok
	})
	fr.LastExitStatus = loopFr.LastExitStatus
	loopFr.Pop()
	return cf
}

func (ex *Executor) runFor(fr *frame.Frame, n *ast.For) frame.ControlFlow {
	env := newFrameEnv(ex, fr)
	var words []string
	if n.HasIn {
		for _, w := range n.InWords {
			fields, err := expand.ExpandWord(w.Word, expand.ModeDefault, env)
			if err != nil {
				fmt.Fprintln(ex.stderr(fr), err)
				fr.LastExitStatus = shellerr.CategoryExpansion.ExitStatus()
				return frame.Ok
			}
			words = append(words, fields...)
		}
	} else {
		words = fr.Positional.All()
	}

	loopFr := fr.Push(frame.KindLoop)
	cf := ex.runWithRedirects(loopFr, n.Redirects, func() frame.ControlFlow {
		status := 0
		for _, w := range words {
			varTarget(loopFr).Set(n.Name, w)

			bodyCf := ex.Run(loopFr, n.Body)
			status = loopFr.LastExitStatus
			if isInterrupt(bodyCf) {
				stop, cont, forward, isLoop := consumeLoopSignal(bodyCf)
				if !isLoop {
					return bodyCf
				}
				if stop {
					break
				}
				if cont {
					continue
				}
				return forward
			}
		}
		loopFr.LastExitStatus = status
		return frame.Ok
	})
	fr.LastExitStatus = loopFr.LastExitStatus
	loopFr.Pop()
	return cf
}

func (ex *Executor) runCase(fr *frame.Frame, n *ast.Case) frame.ControlFlow {
	return ex.runWithRedirects(fr, n.Redirects, func() frame.ControlFlow {
		env := newFrameEnv(ex, fr)
		subject, err := expandOneNoSplit(n.Subject, env)
		if err != nil {
			fmt.Fprintln(ex.stderr(fr), err)
			fr.LastExitStatus = shellerr.CategoryExpansion.ExitStatus()
			return frame.Ok
		}

		for _, item := range n.Items {
			for _, pat := range item.Patterns {
				patStr, perr := expandOneNoSplit(pat, env)
				if perr != nil {
					continue
				}
				if expand.MatchPattern(patStr, subject) {
					if item.Body == nil {
						fr.LastExitStatus = 0
						return frame.Ok
					}
					return ex.Run(fr, item.Body)
				}
			}
		}
		fr.LastExitStatus = 0
		return frame.Ok
	})
}

func (ex *Executor) runSubshell(fr *frame.Frame, n *ast.Subshell) frame.ControlFlow {
	child := fr.Push(frame.KindSubshell)
	ex.runWithRedirects(child, n.Redirects, func() frame.ControlFlow {
		return ex.Run(child, n.Body)
	})
	status := child.LastExitStatus
	trap.RunExitTrap(child, ex.runTrapAction)
	child.Pop()
	fr.LastExitStatus = status
	return frame.Ok
}

func (ex *Executor) runBraceGroup(fr *frame.Frame, n *ast.BraceGroup) frame.ControlFlow {
	child := fr.Push(frame.KindBraceGroup)
	cf := ex.runWithRedirects(child, n.Redirects, func() frame.ControlFlow {
		return ex.Run(child, n.Body)
	})
	fr.LastExitStatus = child.LastExitStatus
	child.Pop()
	return cf
}

func (ex *Executor) runFuncDef(fr *frame.Frame, n *ast.FuncDef) frame.ControlFlow {
	fr.Functions.Define(n.Name, n.Body)
	fr.LastExitStatus = 0
	return frame.ControlFlow{Kind: frame.CFFunctionStored}
}
