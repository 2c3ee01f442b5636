package shell

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func withCapturedStdout(t *testing.T) (*os.File, func() string) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&out, r)
		close(done)
	}()
	return w, func() string {
		w.Close()
		<-done
		r.Close()
		return out.String()
	}
}

func TestEngineEvalRunsScript(t *testing.T) {
	w, collect := withCapturedStdout(t)
	engine, err := New(WithEnviron([]string{"USER=alice"}), WithStdout(w))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := engine.Eval(`echo "hello $USER"`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success || result.ExitStatus != 0 {
		t.Fatalf("result = %+v, want success with status 0", result)
	}
	if out := collect(); out != "hello alice\n" {
		t.Fatalf("out = %q, want %q", out, "hello alice\n")
	}
}

func TestEngineStateAccumulatesAcrossEval(t *testing.T) {
	w, collect := withCapturedStdout(t)
	engine, err := New(WithStdout(w))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := engine.Eval(`x=42`); err != nil {
		t.Fatalf("Eval (assignment): %v", err)
	}
	if _, err := engine.Eval(`echo "$x"`); err != nil {
		t.Fatalf("Eval (read): %v", err)
	}
	if out := collect(); out != "42\n" {
		t.Fatalf("out = %q, want %q", out, "42\n")
	}
}

func TestEngineRegisterBuiltin(t *testing.T) {
	w, collect := withCapturedStdout(t)
	engine, err := New(WithStdout(w))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	engine.RegisterBuiltin("greet", func(argv []string, stdout, stderr io.Writer) int {
		io.WriteString(stdout, "hi "+argv[1]+"\n")
		return 0
	})

	result, err := engine.Eval(`greet world`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.ExitStatus != 0 {
		t.Fatalf("ExitStatus = %d, want 0", result.ExitStatus)
	}
	if out := collect(); out != "hi world\n" {
		t.Fatalf("out = %q, want %q", out, "hi world\n")
	}
}

func TestEngineCloseRunsExitTrap(t *testing.T) {
	w, collect := withCapturedStdout(t)
	engine, err := New(WithStdout(w))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := engine.Eval(`trap 'echo bye' EXIT`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	engine.Close()
	if out := collect(); out != "bye\n" {
		t.Fatalf("out = %q, want %q", out, "bye\n")
	}
}
