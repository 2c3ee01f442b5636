package exec

import (
	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/trap"
)

// runBackground starts node running asynchronously as a tracked job
// (spec.md §4.3 "a trailing & backgrounds the preceding list item").
// Only external leaf commands within node become real OS processes;
// the job itself is a goroutine, so $! resolves to a synthetic job ID
// rather than a kernel PID — a scope simplification, since this shell
// does not fork itself into a second OS process per job.
func (ex *Executor) runBackground(fr *frame.Frame, node ast.Node) {
	child := fr.Push(frame.KindBackground)
	job := ex.Jobs.Add(0, describeNode(node))
	ex.setLastBackgroundPID(job.ID)

	go func() {
		ex.Run(child, node)
		trap.RunExitTrap(child, ex.runTrapAction)
		ex.Jobs.MarkDone(job.ID, child.LastExitStatus)
		child.Pop()
	}()
}

func describeNode(node ast.Node) string {
	if sc, ok := node.(*ast.SimpleCommand); ok && len(sc.Words) > 0 {
		return sc.Words[0].Raw
	}
	return "..."
}
