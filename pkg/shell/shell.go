// Package shell is the embeddable facade around the interpreter core: a
// small functional-options constructor, an Eval entry point, and a
// Result the caller inspects instead of reaching into the executor's
// internals directly.
package shell

import (
	"io"
	"os"

	"github.com/spk121/posh/internal/builtin"
	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/lexer"
	"github.com/spk121/posh/internal/parser"
)

// redirectTarget is anything New can bind to a standard fd: callers
// pass an *os.File directly (a pipe's write end, a real file opened
// with os.Create) since frame.FileTable, like a real process's fd
// table, only ever holds *os.File values.
type redirectTarget = *os.File

// Engine embeds a running shell session: one root frame plus the
// executor that walks it. Eval calls accumulate state in the same frame
// (variables, functions, traps, cwd) exactly like successive lines
// typed at an interactive shell would.
type Engine struct {
	fr *frame.Frame
	ex *exec.Executor
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	arg0    string
	args    []string
	environ []string
	stdout  redirectTarget
	stderr  redirectTarget
}

// WithArgs sets $0 and the positional parameters the root frame starts
// with.
func WithArgs(arg0 string, args []string) Option {
	return func(c *engineConfig) { c.arg0, c.args = arg0, args }
}

// WithEnviron seeds the root frame's variables from environ ("NAME=value"
// pairs) instead of the host process's own environment.
func WithEnviron(environ []string) Option {
	return func(c *engineConfig) { c.environ = environ }
}

// WithStdout redirects the root frame's fd 1 to f, e.g. the write end of
// an os.Pipe() a caller reads Eval's output back from.
func WithStdout(f *os.File) Option {
	return func(c *engineConfig) { c.stdout = f }
}

// WithStderr redirects the root frame's fd 2 to f.
func WithStderr(f *os.File) Option {
	return func(c *engineConfig) { c.stderr = f }
}

// New constructs an Engine with a fresh root frame. Stdout/stderr
// default to the host process's own, matching a freshly exec'd shell;
// use WithStdout/WithStderr to capture output instead.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{arg0: "posh", environ: os.Environ()}
	for _, opt := range opts {
		opt(cfg)
	}

	fr := frame.NewRoot(cfg.arg0, cfg.args, cfg.environ)

	if cfg.stdout != nil {
		fr.Files.Set(1, cfg.stdout)
	}
	if cfg.stderr != nil {
		fr.Files.Set(2, cfg.stderr)
	}

	registry := exec.NewRegistry()
	builtin.RegisterAll(registry)

	return &Engine{fr: fr, ex: exec.NewWithRegistry(registry)}, nil
}

// Result reports the outcome of one Eval call: whether the program
// parsed and ran without a syntax error, and the exit status it
// produced (the shell's $? after running).
type Result struct {
	Success    bool
	ExitStatus int
}

// Eval parses src as a complete program and runs it against the
// engine's frame, returning the script's own exit status rather than
// terminating the host process the way cmd/posh's run subcommand does.
// The EXIT trap, if any was installed by a previous Eval call, runs
// once when the Engine is closed via Close, not after every Eval.
func (e *Engine) Eval(src string) (*Result, error) {
	lx := lexer.New(src)
	p := parser.New(lx)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return &Result{Success: false, ExitStatus: 2}, errs[0]
	}
	e.ex.Run(e.fr, prog)
	return &Result{Success: true, ExitStatus: e.fr.LastExitStatus}, nil
}

// RegisterBuiltin installs fn as a builtin command named name, visible
// to every subsequent Eval call — the embeddable-facade equivalent of
// registering a host function into the running interpreter.
func (e *Engine) RegisterBuiltin(name string, fn func(argv []string, stdout, stderr io.Writer) int) {
	e.ex.Registry.Register(name, func(ex *exec.Executor, fr *frame.Frame, argv []string) int {
		return fn(argv, ex.Stdout(fr), ex.Stderr(fr))
	})
}

// Close runs the engine's EXIT trap, if any, the same way leaving the
// top-level frame of a cmd/posh run does.
func (e *Engine) Close() int {
	return e.ex.RunTopLevel(e.fr, nil)
}

// LastExitStatus reports the most recent command's exit status ($?)
// without requiring another Eval call.
func (e *Engine) LastExitStatus() int {
	return e.fr.LastExitStatus
}
