package exec

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
)

// runScript lexes, parses, and runs src against a fresh root frame,
// capturing whatever it writes to fd 1 through a real pipe so external
// commands and builtins are exercised identically.
func runScript(t *testing.T, src string) (string, int) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	fr := frame.NewRoot("posh", nil, os.Environ())
	fr.Files.Set(1, w)

	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&out, r)
		close(done)
	}()

	lx := lexer.New(src)
	p := parser.New(lx)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}

	ex := New()
	ex.Run(fr, prog)

	w.Close()
	<-done
	r.Close()

	return out.String(), fr.LastExitStatus
}

func TestRunSimpleCommandBuiltinNotRegisteredFallsThroughToExternal(t *testing.T) {
	out, status := runScript(t, `echo hello`)
	if status != 0 {
		t.Fatalf("status = %d, want 0 (out=%q)", status, out)
	}
	if out != "hello\n" {
		t.Fatalf("out = %q, want %q", out, "hello\n")
	}
}

func TestAndOrShortCircuits(t *testing.T) {
	out, status := runScript(t, `false && echo A; echo B`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "B\n" {
		t.Fatalf("out = %q, want %q", out, "B\n")
	}
}

func TestErrexitStopsListAfterFailure(t *testing.T) {
	// Toggles frame.OptErrexit directly rather than through the `set`
	// builtin, so this package's own List/errexit wiring is exercised
	// independent of internal/builtin.
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	fr := frame.NewRoot("posh", nil, os.Environ())
	fr.Files.Set(1, w)
	fr.Options.Set(frame.OptErrexit, true)

	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&out, r)
		close(done)
	}()

	lx := lexer.New(`false; echo reached`)
	p := parser.New(lx)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	ex := New()
	cf := ex.Run(fr, prog)

	w.Close()
	<-done
	r.Close()

	if cf.Kind != frame.CFExit {
		t.Fatalf("control flow = %v, want CFExit", cf.Kind)
	}
	if out.String() != "" {
		t.Fatalf("out = %q, want empty: errexit should stop before echo", out.String())
	}
}

func TestSubshellVariableDoesNotEscape(t *testing.T) {
	out, status := runScript(t, `x=1; (x=2); echo $x`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "1\n" {
		t.Fatalf("out = %q, want %q: subshell writes must not leak to the parent", out, "1\n")
	}
}

func TestForLoopFieldPreservesQuotedWord(t *testing.T) {
	out, status := runScript(t, `for i in a "b c" d; do echo "$i"; done`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	want := "a\nb c\nd\n"
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	out, status := runScript(t, "greet() { echo \"hi $1\"; }\ngreet world")
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "hi world\n" {
		t.Fatalf("out = %q, want %q", out, "hi world\n")
	}
}

func TestPipelineConnectsStages(t *testing.T) {
	out, status := runScript(t, `printf 'b\na\nc\n' | sort`)
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "a\nb\nc\n" {
		t.Fatalf("out = %q, want %q", out, "a\nb\nc\n")
	}
}

func TestCommandSubstitutionCapturesStdout(t *testing.T) {
	out, status := runScript(t, "x=$(echo inner); echo \"$x\"")
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	if out != "inner\n" {
		t.Fatalf("out = %q, want %q", out, "inner\n")
	}
}
