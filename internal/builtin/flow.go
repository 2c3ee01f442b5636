package builtin

import (
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
)

func registerFlow(r *exec.Registry) {
	r.Register("exit", Exit)
	r.Register("return", Return)
	r.Register("break", Break)
	r.Register("continue", Continue)
	r.Register("eval", Eval)
	r.Register("exec", Exec)
}

// Exit signals shell termination at whatever frame FindExitTarget
// resolves to, with the given code or the last command's status if none
// is given.
func Exit(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	code := fr.LastExitStatus
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			code = n
		}
	}
	code &= 0xff
	fr.Pending = frame.ControlFlow{Kind: frame.CFExit, Code: code}
	return code
}

// Return signals a function return at whatever frame FindReturnTarget
// resolves to. Outside a function (and outside a dot-script, once that
// is wired as a command source) this propagates as CFReturn anyway; the
// frame walk decides whether any frame can actually absorb it.
func Return(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	code := fr.LastExitStatus
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			code = n
		}
	}
	code &= 0xff
	fr.Pending = frame.ControlFlow{Kind: frame.CFReturn, Code: code}
	return code
}

// Break signals breaking out of the innermost n loops (default 1).
func Break(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	levels := loopLevels(argv)
	fr.Pending = frame.ControlFlow{Kind: frame.CFBreak, Levels: levels}
	return 0
}

// Continue signals continuing the innermost n loops (default 1).
func Continue(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	levels := loopLevels(argv)
	fr.Pending = frame.ControlFlow{Kind: frame.CFContinue, Levels: levels}
	return 0
}

func loopLevels(argv []string) int {
	if len(argv) > 1 {
		if n, err := strconv.Atoi(argv[1]); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// Eval concatenates its arguments with a space, parses and runs the
// result in the current frame, and forwards whatever control-flow
// signal the parsed text itself produced (a "return" inside an eval'd
// string must still return the enclosing function, for example).
func Eval(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	src := strings.Join(argv[1:], " ")
	cf, status := ex.RunString(fr, src)
	if cf.Kind != frame.CFOk {
		fr.Pending = cf
	}
	return status
}

// Exec runs its argument as an external command directly, replacing the
// shell's own execution going forward. This process never forks a
// second OS process for the shell itself, so "replacing" is realized by
// running the command synchronously and then signalling CFExit with its
// status, the same observable outcome without actually calling execve.
// A bare "exec" with no command (historically used only to apply
// redirections permanently) is a no-op here, since redirections a
// simple command attaches are always undone when that command finishes;
// this is a known, documented simplification.
func Exec(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	if len(argv) < 2 {
		return 0
	}
	status, enoexec := ex.RunExternalDetectENOEXEC(fr, argv[1:])
	if enoexec {
		status = runThroughUserShell(ex, fr, argv[1:])
	}
	fr.Pending = frame.ControlFlow{Kind: frame.CFExit, Code: status}
	return status
}

// runThroughUserShell re-runs a command whose exec(3) call failed with
// ENOEXEC (a script with no shebang line the kernel can dispatch on its
// own) through $SHELL -c, splitting $SHELL the same way a terminal
// re-exec would need to if it carried its own arguments.
func runThroughUserShell(ex *exec.Executor, fr *frame.Frame, words []string) int {
	shellVar := os.Getenv("SHELL")
	if v, ok := exec.VarTarget(fr).Get("SHELL"); ok && v.Value != "" {
		shellVar = v.Value
	}
	if shellVar == "" {
		shellVar = "sh"
	}
	parts, err := shlex.Split(shellVar)
	if err != nil || len(parts) == 0 {
		parts = []string{"sh"}
	}
	parts = append(parts, "-c", strings.Join(words, " "))
	return ex.RunExternal(fr, parts)
}
