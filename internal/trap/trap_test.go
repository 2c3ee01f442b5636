package trap

import (
	"testing"

	"github.com/spk121/posh/internal/frame"
)

func TestRaiseAndTakePendingClearsFlag(t *testing.T) {
	if !Raise("USR1") {
		t.Fatal("Raise(USR1) should succeed for a catchable signal")
	}
	names := TakePending()
	found := false
	for _, n := range names {
		if n == "USR1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected USR1 among pending signals, got %v", names)
	}
	if names2 := TakePending(); len(names2) != 0 {
		for _, n := range names2 {
			if n == "USR1" {
				t.Fatal("USR1 flag should have been cleared by the first TakePending")
			}
		}
	}
}

func TestRaiseRejectsUnknownSignal(t *testing.T) {
	if Raise("BOGUS") {
		t.Fatal("Raise should reject a name outside the catchable set")
	}
}

func TestRunPendingSkipsUninstalledTraps(t *testing.T) {
	Raise("USR2")
	root := frame.NewRoot("sh", nil, nil)
	called := false
	RunPending(root, func(*frame.Frame, string) int {
		called = true
		return 0
	})
	if called {
		t.Fatal("no trap installed for USR2; action should not run")
	}
}

func TestRunPendingInvokesInstalledTrap(t *testing.T) {
	Raise("USR2")
	root := frame.NewRoot("sh", nil, nil)
	root.Traps.Set("USR2", frame.TrapAction{Command: "echo got it"})
	var gotAction string
	RunPending(root, func(_ *frame.Frame, action string) int {
		gotAction = action
		return 0
	})
	if gotAction != "echo got it" {
		t.Fatalf("trap action not run, got %q", gotAction)
	}
}

func TestRunExitTrapRespectsPolicy(t *testing.T) {
	root := frame.NewRoot("sh", nil, nil)
	root.Traps.Set(frame.ExitPseudoSignal, frame.TrapAction{Command: "echo bye"})
	var ran bool
	RunExitTrap(root, func(_ *frame.Frame, action string) int {
		ran = true
		return 0
	})
	if !ran {
		t.Fatal("top-level frame has ExitTrapRuns=true; EXIT trap should run")
	}

	fn := root.Push(frame.KindFunction)
	ran = false
	RunExitTrap(fn, func(_ *frame.Frame, action string) int {
		ran = true
		return 0
	})
	if ran {
		t.Fatal("function frame has ExitTrapRuns=false; EXIT trap should not run")
	}
}
