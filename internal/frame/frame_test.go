package frame

import "testing"

func newTestRoot() *Frame {
	return NewRoot("/bin/sh", []string{"a", "b"}, []string{"HOME=/home/u", "PATH=/bin"})
}

func TestRootSeedsExportedVariablesFromEnviron(t *testing.T) {
	root := newTestRoot()
	v, ok := root.Variables.Get("HOME")
	if !ok || v.Value != "/home/u" || !v.Exported {
		t.Fatalf("HOME not seeded correctly: %+v ok=%v", v, ok)
	}
	if root.Positional.Count() != 2 {
		t.Fatalf("expected 2 positional params, got %d", root.Positional.Count())
	}
}

func TestSubshellCopiesVariablesIndependently(t *testing.T) {
	root := newTestRoot()
	root.Variables.Set("x", "1")

	sub := root.Push(KindSubshell)
	sub.Variables.Set("x", "2")

	rv, _ := root.Variables.Get("x")
	sv, _ := sub.Variables.Get("x")
	if rv.Value != "1" {
		t.Fatalf("parent variable mutated by subshell: got %q", rv.Value)
	}
	if sv.Value != "2" {
		t.Fatalf("subshell variable not independent: got %q", sv.Value)
	}
}

func TestFunctionFrameSharesVariablesButOwnsPositional(t *testing.T) {
	root := newTestRoot()
	root.Variables.Set("x", "1")

	fn := root.Push(KindFunction)
	if fn.Locals == nil {
		t.Fatal("expected function frame to have a locals overlay")
	}
	fn.Variables.Set("x", "shared-write")
	rv, _ := root.Variables.Get("x")
	if rv.Value != "shared-write" {
		t.Fatalf("function frame did not share variables with caller: %q", rv.Value)
	}

	fn.Positional.SetAll([]string{"one", "two", "three"})
	if root.Positional.Count() != 2 {
		t.Fatalf("function frame's positional params leaked to caller: count=%d", root.Positional.Count())
	}
	if fn.Positional.Arg0() != root.Positional.Arg0() {
		t.Fatalf("function frame should inherit $0, got %q", fn.Positional.Arg0())
	}
}

func TestLocalOverlayShadowsSharedVariable(t *testing.T) {
	root := newTestRoot()
	root.Variables.Set("x", "outer")

	fn := root.Push(KindFunction)
	fn.Locals.Declare("x", "inner")

	v, _ := fn.Locals.Get("x")
	if v.Value != "inner" {
		t.Fatalf("local did not shadow: %q", v.Value)
	}
	rv, _ := root.Variables.Get("x")
	if rv.Value != "outer" {
		t.Fatalf("declaring a local mutated the caller's variable: %q", rv.Value)
	}
}

func TestTrapFrameForcesErrexitOff(t *testing.T) {
	root := newTestRoot()
	root.Options.Set(OptErrexit, true)

	trap := root.Push(KindTrap)
	if trap.Options.Get(OptErrexit) {
		t.Fatal("trap frame should observe errexit as disabled")
	}
	trap.Pop()
	if !root.Options.Get(OptErrexit) {
		t.Fatal("popping the trap frame should not disturb the caller's errexit setting")
	}
}

func TestFindReturnTargetStopsAtSubshellBoundary(t *testing.T) {
	root := newTestRoot()
	sub := root.Push(KindSubshell)
	loop := sub.Push(KindLoop)

	if _, ok := loop.FindReturnTarget(); ok {
		t.Fatal("return should not escape a subshell boundary")
	}
}

func TestFindReturnTargetFindsEnclosingFunction(t *testing.T) {
	root := newTestRoot()
	fn := root.Push(KindFunction)
	loop := fn.Push(KindLoop)

	target, ok := loop.FindReturnTarget()
	if !ok || target != fn {
		t.Fatalf("expected return to target the enclosing function frame")
	}
}

func TestFindLoopTargetHonorsLevels(t *testing.T) {
	root := newTestRoot()
	outer := root.Push(KindLoop)
	inner := outer.Push(KindLoop)

	target, ok := inner.FindLoopTarget(1)
	if !ok || target != inner {
		t.Fatalf("break 1 should target innermost loop")
	}
	target, ok = inner.FindLoopTarget(2)
	if !ok || target != outer {
		t.Fatalf("break 2 should target outer loop")
	}
}

func TestFindExitTargetReachesSubshellOrRoot(t *testing.T) {
	root := newTestRoot()
	sub := root.Push(KindSubshell)
	brace := sub.Push(KindBraceGroup)

	if brace.FindExitTarget() != sub {
		t.Fatal("exit from within a subshell should terminate at the subshell frame")
	}
	if root.FindExitTarget() != root {
		t.Fatal("exit at top level should terminate at root")
	}
}

func TestBackgroundJobCopiesOnlyExportedVariables(t *testing.T) {
	root := newTestRoot()
	root.Variables.Set("local_only", "x")

	bg := root.Push(KindBackground)
	if _, ok := bg.Variables.Get("local_only"); ok {
		t.Fatal("background job should not inherit non-exported variables")
	}
	if _, ok := bg.Variables.Get("HOME"); !ok {
		t.Fatal("background job should inherit exported variables")
	}
}

func TestPositionalShift(t *testing.T) {
	p := NewPositionalParams("sh", []string{"a", "b", "c"})
	if err := p.Shift(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Count() != 1 {
		t.Fatalf("expected 1 remaining param, got %d", p.Count())
	}
	if v, _ := p.Get(1); v != "c" {
		t.Fatalf("expected remaining param %q, got %q", "c", v)
	}
	if err := p.Shift(5); err == nil {
		t.Fatal("expected error shifting past the end")
	}
}

func TestReadOnlyVariableRejectsWrites(t *testing.T) {
	s := NewVariableStore()
	s.Set("x", "1")
	s.SetReadOnly("x")
	if err := s.Set("x", "2"); err == nil {
		t.Fatal("expected write to read-only variable to fail")
	}
	if err := s.Unset("x"); err == nil {
		t.Fatal("expected unset of read-only variable to fail")
	}
}

func TestTrapStoreRejectsNonCatchableSignals(t *testing.T) {
	s := NewTrapStore()
	if err := s.Set("KILL", TrapAction{Command: "echo hi"}); err == nil {
		t.Fatal("expected trapping SIGKILL to fail")
	}
}

func TestTrapStoreCloneResetsNonIgnored(t *testing.T) {
	s := NewTrapStore()
	s.Set("INT", TrapAction{Command: "echo int"})
	s.Set("TERM", TrapAction{Ignore: true})

	clone := s.Clone(true)
	if _, ok := clone.Get("INT"); ok {
		t.Fatal("subshell clone should reset non-ignored traps")
	}
	if a, ok := clone.Get("TERM"); !ok || !a.Ignore {
		t.Fatal("subshell clone should preserve ignored traps")
	}
}

func TestJobStoreReapOnlyRemovesNotifiedDoneJobs(t *testing.T) {
	s := NewJobStore()
	j := s.Add(1234, "sleep 1 &")
	s.MarkDone(j.ID, 0)
	s.Reap()
	if _, ok := s.Get(j.ID); !ok {
		t.Fatal("un-notified done job should survive Reap")
	}
	j.Notified = true
	s.Reap()
	if _, ok := s.Get(j.ID); ok {
		t.Fatal("notified done job should be removed by Reap")
	}
}
