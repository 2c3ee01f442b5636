package exec

import (
	"os"
	"sync"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/frame"
)

// runPipelineMembers runs every command of a multi-stage pipeline
// concurrently, connecting consecutive stages with real os.Pipe ends so
// both in-process builtins/functions and os/exec-spawned external
// commands can use the same *os.File-based plumbing (spec.md §4.3
// "Pipeline orchestration"). It returns each member's exit status in
// order; job-control bookkeeping (fg/bg/pgid) is out of scope for a
// Go-process pipeline since only external stages become real OS
// processes.
func (ex *Executor) runPipelineMembers(orch *frame.Frame, commands []ast.Node) []int {
	n := len(commands)
	statuses := make([]int, n)

	stdins := make([]*os.File, n)
	stdouts := make([]*os.File, n)
	if f, ok := orch.Files.Get(0); ok {
		stdins[0] = f
	}
	if f, ok := orch.Files.Get(1); ok {
		stdouts[n-1] = f
	}

	ownedRead := make([]bool, n)
	ownedWrite := make([]bool, n)
	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			for j := i; j < n; j++ {
				statuses[j] = 1
			}
			return statuses
		}
		stdouts[i] = w
		stdins[i+1] = r
		ownedWrite[i] = true
		ownedRead[i+1] = true
	}

	var wg sync.WaitGroup
	for i, cmdNode := range commands {
		i, cmdNode := i, cmdNode
		wg.Add(1)
		go func() {
			defer wg.Done()
			memberFr := orch.Push(frame.KindPipelineMember)
			if stdins[i] != nil {
				memberFr.Files.Set(0, stdins[i])
			}
			if stdouts[i] != nil {
				memberFr.Files.Set(1, stdouts[i])
			}

			ex.Run(memberFr, cmdNode)
			statuses[i] = memberFr.LastExitStatus
			memberFr.Pop()

			if ownedRead[i] {
				stdins[i].Close()
			}
			if ownedWrite[i] {
				stdouts[i].Close()
			}
		}()
	}
	wg.Wait()
	return statuses
}
