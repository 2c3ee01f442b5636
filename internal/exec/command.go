package exec

import (
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/expand"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
)

// runSimpleCommand implements spec.md §4.3's "Command resolution
// precedence": apply redirections, expand words, bind any assignment
// prefixes temporarily for this command only, then resolve words[0]
// against functions, builtins, and finally $PATH.
func (ex *Executor) runSimpleCommand(fr *frame.Frame, n *ast.SimpleCommand) frame.ControlFlow {
	env := newFrameEnv(ex, fr)

	if len(n.Words) == 0 {
		return ex.runAssignOnly(fr, n, env)
	}

	fr.FDs.PushScope()
	undo, rerr := ex.applyRedirects(fr, n.Redirects, env)
	defer func() {
		ex.undoRedirects(fr, undo)
		fr.FDs.PopScope()
	}()
	if rerr != nil {
		fmt.Fprintln(ex.stderr(fr), rerr)
		fr.LastExitStatus = exitStatusOf(rerr)
		return frame.Ok
	}

	words, werr := expandWords(n.Words, env)
	if werr != nil {
		fmt.Fprintln(ex.stderr(fr), werr)
		fr.LastExitStatus = shellerr.CategoryExpansion.ExitStatus()
		return frame.Ok
	}
	if len(words) == 0 {
		fr.LastExitStatus = 0
		return frame.Ok
	}

	var saved []savedVar
	for _, a := range n.Assigns {
		val, aerr := expandAssignValue(a.Value, env)
		if aerr != nil {
			fmt.Fprintln(ex.stderr(fr), aerr)
			fr.LastExitStatus = shellerr.CategoryExpansion.ExitStatus()
			return frame.Ok
		}
		saved = append(saved, captureVar(fr, a.Name))
		fr.Variables.Set(a.Name, val)
		fr.Variables.SetExported(a.Name, true)
	}

	cf, status := ex.dispatchCommand(fr, words, env)

	for i := len(saved) - 1; i >= 0; i-- {
		restoreVar(fr, saved[i])
	}

	fr.LastExitStatus = status
	return cf
}

// runAssignOnly applies every assignment permanently to the current
// frame (no command word follows them), matching POSIX "x=1" semantics.
func (ex *Executor) runAssignOnly(fr *frame.Frame, n *ast.SimpleCommand, env expand.Environment) frame.ControlFlow {
	fr.FDs.PushScope()
	undo, rerr := ex.applyRedirects(fr, n.Redirects, env)
	defer func() {
		ex.undoRedirects(fr, undo)
		fr.FDs.PopScope()
	}()
	if rerr != nil {
		fmt.Fprintln(ex.stderr(fr), rerr)
		fr.LastExitStatus = exitStatusOf(rerr)
		return frame.Ok
	}

	status := 0
	for _, a := range n.Assigns {
		val, aerr := expandAssignValue(a.Value, env)
		if aerr != nil {
			fmt.Fprintln(ex.stderr(fr), aerr)
			status = shellerr.CategoryExpansion.ExitStatus()
			continue
		}
		target := varTarget(fr)
		if serr := target.Set(a.Name, val); serr != nil {
			fmt.Fprintln(ex.stderr(fr), serr)
			status = 1
			continue
		}
		if fr.Options.Get(frame.OptAllexport) {
			fr.Variables.SetExported(a.Name, true)
		}
	}
	fr.LastExitStatus = status
	return frame.Ok
}

type savedVar struct {
	name     string
	had      bool
	val      string
	exported bool
}

func captureVar(fr *frame.Frame, name string) savedVar {
	if v, ok := fr.Variables.Get(name); ok {
		return savedVar{name: name, had: true, val: v.Value, exported: v.Exported}
	}
	return savedVar{name: name, had: false}
}

func restoreVar(fr *frame.Frame, s savedVar) {
	if s.had {
		fr.Variables.Set(s.name, s.val)
		fr.Variables.SetExported(s.name, s.exported)
		return
	}
	fr.Variables.Unset(s.name)
}

// dispatchCommand resolves words[0] as a function, then a builtin, then
// an external command on $PATH, in that order (spec.md §4.3's
// precedence). It returns the control-flow signal to propagate and the
// exit status to record in fr.LastExitStatus.
func (ex *Executor) dispatchCommand(fr *frame.Frame, words []string, env expand.Environment) (frame.ControlFlow, int) {
	name := words[0]

	if body, ok := fr.Functions.Get(name); ok {
		return ex.callFunction(fr, body, words)
	}

	if fn, ok := ex.Registry.Lookup(name); ok {
		fr.Pending = frame.Ok
		status := fn(ex, fr, words)
		cf := fr.Pending
		fr.Pending = frame.Ok
		if cf.Kind != frame.CFOk {
			return cf, status
		}
		return frame.Ok, status
	}

	return ex.runExternal(fr, words)
}

func (ex *Executor) callFunction(fr *frame.Frame, body ast.Node, words []string) (frame.ControlFlow, int) {
	child := fr.Push(frame.KindFunction)
	child.Positional.SetAll(words[1:])

	cf := ex.Run(child, body)
	status := child.LastExitStatus
	child.Pop()

	switch cf.Kind {
	case frame.CFReturn:
		return frame.Ok, cf.Code
	case frame.CFBreak, frame.CFContinue:
		return frame.Ok, status
	default:
		return cf, status
	}
}

func (ex *Executor) runExternal(fr *frame.Frame, words []string) (frame.ControlFlow, int) {
	path, lerr := lookPath(fr, words[0])
	if lerr != nil {
		fmt.Fprintf(ex.stderr(fr), "%s: command not found\n", words[0])
		return frame.Ok, shellerr.CategoryCommandNotFound.ExitStatus()
	}

	cmd := osexec.Command(path)
	cmd.Args = words
	cmd.Env = environFor(fr)
	cmd.Dir = fr.CWD
	if stdin, ok := fr.Files.Get(0); ok {
		cmd.Stdin = stdin
	}
	if stdout, ok := fr.Files.Get(1); ok {
		cmd.Stdout = stdout
	}
	if stderr, ok := fr.Files.Get(2); ok {
		cmd.Stderr = stderr
	}
	cmd.ExtraFiles = extraFiles(fr)

	runErr := cmd.Run()
	if runErr == nil {
		return frame.Ok, 0
	}
	var exitErr *osexec.ExitError
	if errors.As(runErr, &exitErr) {
		return frame.Ok, exitErr.ExitCode()
	}
	fmt.Fprintln(ex.stderr(fr), shellerr.Wrap(shellerr.CategoryNotExecutable, words[0], runErr))
	return frame.Ok, shellerr.CategoryNotExecutable.ExitStatus()
}

// runExternalDetectENOEXEC behaves like runExternal but, on a kernel
// ENOEXEC (the target file has no recognized binary format — commonly a
// script missing its shebang line), reports that fact instead of
// printing a not-executable error, so a caller like the `exec` builtin
// can retry the command through the user's shell the way a real exec(3)
// caller falling back to /bin/sh would.
func (ex *Executor) runExternalDetectENOEXEC(fr *frame.Frame, words []string) (status int, enoexec bool) {
	path, lerr := lookPath(fr, words[0])
	if lerr != nil {
		fmt.Fprintf(ex.stderr(fr), "%s: command not found\n", words[0])
		return shellerr.CategoryCommandNotFound.ExitStatus(), false
	}

	cmd := osexec.Command(path)
	cmd.Args = words
	cmd.Env = environFor(fr)
	cmd.Dir = fr.CWD
	if stdin, ok := fr.Files.Get(0); ok {
		cmd.Stdin = stdin
	}
	if stdout, ok := fr.Files.Get(1); ok {
		cmd.Stdout = stdout
	}
	if stderr, ok := fr.Files.Get(2); ok {
		cmd.Stderr = stderr
	}
	cmd.ExtraFiles = extraFiles(fr)

	runErr := cmd.Run()
	if runErr == nil {
		return 0, false
	}
	if errors.Is(runErr, syscall.ENOEXEC) {
		return 0, true
	}
	var exitErr *osexec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), false
	}
	fmt.Fprintln(ex.stderr(fr), shellerr.Wrap(shellerr.CategoryNotExecutable, words[0], runErr))
	return shellerr.CategoryNotExecutable.ExitStatus(), false
}

// extraFiles builds os/exec's ExtraFiles slice from fr.Files's fds 3,
// 4, ... up to the first unset fd. Cmd.ExtraFiles has no concept of a
// gap, so descriptors above the first unset one are not passed to the
// child at all: with fd 3 unset, an "exec 4>file" fd is not inherited.
func extraFiles(fr *frame.Frame) []*os.File {
	var extra []*os.File
	for fd := 3; ; fd++ {
		f, ok := fr.Files.Get(fd)
		if !ok {
			break
		}
		extra = append(extra, f)
	}
	return extra
}

func lookPath(fr *frame.Frame, name string) (string, error) {
	if strings.Contains(name, "/") {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: not found", name)
	}
	v, _ := varTarget(fr).Get("PATH")
	path := os.Getenv("PATH")
	if v != nil {
		path = v.Value
	}
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: not found", name)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}

func expandWords(words []ast.Word, env expand.Environment) ([]string, error) {
	var out []string
	for _, w := range words {
		fields, err := expand.ExpandWord(w.Word, expand.ModeDefault, env)
		if err != nil {
			return nil, err
		}
		out = append(out, fields...)
	}
	return out, nil
}

func expandAssignValue(w ast.Word, env expand.Environment) (string, error) {
	fields, err := expand.ExpandWord(w.Word, expand.ModeNoSplit, env)
	if err != nil {
		return "", err
	}
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

func exitStatusOf(err error) int {
	var se *shellerr.Error
	if errors.As(err, &se) {
		return se.Category.ExitStatus()
	}
	return 1
}
