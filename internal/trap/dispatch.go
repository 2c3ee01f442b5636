package trap

import "github.com/spk121/posh/internal/frame"

// Executor is the subset of the executor's capability the dispatcher
// needs: given a trap frame already pushed for the right scope, run the
// action text as if it had been read from input and report its exit
// status. Declared here (rather than imported from internal/exec) to
// avoid a dependency cycle — internal/exec imports internal/trap, not
// the other way around.
type Executor func(trapFrame *frame.Frame, action string) int

// RunPending drains every currently pending signal and, for each one
// with an installed non-ignored trap action, runs it in a freshly
// pushed trap frame (spec.md §4.5). Recursive entry into the same
// signal's handler is blocked via TrapStore.TryEnter/Leave. The EXIT
// pseudo-signal is never delivered through this path — see RunExitTrap.
func RunPending(current *frame.Frame, run Executor) {
	for _, name := range TakePending() {
		action, ok := current.Traps.Get(name)
		if !ok || action.Ignore || action.Command == "" {
			continue
		}
		if !current.Traps.TryEnter(name) {
			continue
		}
		trapFrame := current.Push(frame.KindTrap)
		run(trapFrame, action.Command)
		trapFrame.Pop()
		current.Traps.Leave(name)
	}
}

// RunExitTrap invokes the EXIT pseudo-signal's trap action exactly once,
// when leaving a frame whose policy has ExitTrapRuns set (spec.md §4.5
// "The EXIT trap is invoked once, on normal shell termination ... or a
// subshell frame whose policy has exit_trap_runs=true").
func RunExitTrap(current *frame.Frame, run Executor) {
	if !current.Policy.TrapsExitTrapRuns {
		return
	}
	action, ok := current.Traps.Get(frame.ExitPseudoSignal)
	if !ok || action.Ignore || action.Command == "" {
		return
	}
	if !current.Traps.TryEnter(frame.ExitPseudoSignal) {
		return
	}
	trapFrame := current.Push(frame.KindTrap)
	run(trapFrame, action.Command)
	trapFrame.Pop()
	current.Traps.Leave(frame.ExitPseudoSignal)
}
