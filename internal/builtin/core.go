package builtin

import (
	"fmt"
	"strings"

	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
)

func registerCore(r *exec.Registry) {
	r.Register(":", Colon)
	r.Register("true", True)
	r.Register("false", False)
	r.Register("echo", Echo)
}

// Colon is the null utility: it expands its arguments (already done by
// the time a builtin runs) and does nothing else, always succeeding.
func Colon(ex *exec.Executor, fr *frame.Frame, argv []string) int { return 0 }

func True(ex *exec.Executor, fr *frame.Frame, argv []string) int { return 0 }

func False(ex *exec.Executor, fr *frame.Frame, argv []string) int { return 1 }

// Echo writes its arguments to stdout separated by single spaces and
// terminated by a newline, honoring a leading -n to suppress it. No
// backslash-escape processing (POSIX's unspecified default).
func Echo(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]
	newline := true
	for len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	fmt.Fprint(ex.Stdout(fr), strings.Join(args, " "))
	if newline {
		fmt.Fprintln(ex.Stdout(fr))
	}
	return 0
}
