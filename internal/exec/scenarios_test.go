package exec

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
)

// runTopLevelScript is runScript's counterpart for scenarios that need
// the EXIT trap to fire, i.e. anything driven through RunTopLevel rather
// than a bare Run.
func runTopLevelScript(t *testing.T, src string, environ []string) (string, int) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	fr := frame.NewRoot("posh", nil, environ)
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
	status := ex.RunTopLevel(fr, prog)

	w.Close()
	<-done
	r.Close()

	return out.String(), status
}

// TestScenarioParameterExpansionInDoubleQuotes covers echo "hello
// $USER" with USER=alice set in the environment.
func TestScenarioParameterExpansionInDoubleQuotes(t *testing.T) {
	out, status := runTopLevelScript(t, `echo "hello $USER"`, []string{"USER=alice"})
	if status != 0 {
		t.Fatalf("status = %d, want 0", status)
	}
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", t.Name()), out)
}

// TestScenarioExitTrapRunsOnExplicitExit covers trap 'echo bye' EXIT;
// exit 3: the trap must run and write "bye" before the process-level
// exit status of 3 is reported, exercising the RunTopLevel wiring
// rather than Run alone.
func TestScenarioExitTrapRunsOnExplicitExit(t *testing.T) {
	out, status := runTopLevelScript(t, `trap 'echo bye' EXIT; exit 3`, os.Environ())
	if status != 3 {
		t.Fatalf("status = %d, want 3", status)
	}
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", t.Name()), out)
}
