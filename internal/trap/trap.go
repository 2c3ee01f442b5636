// Package trap implements the cooperative signal/trap dispatcher of
// spec.md §4.5: platform signal handlers set a per-signal pending flag,
// and the executor consumes pending flags at safe points between AST
// steps. spec.md §9 "Global state" requires the actual OS signal
// handler to touch only process-global, atomic, sig_atomic_t-equivalent
// state — here that is a single package-level array of atomic flags,
// written only by the goroutine draining os/signal's channel and read
// by Dispatcher.Pending.
package trap

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// catchableSignals lists every signal this shell is willing to trap,
// matching the *nix job-control signal set a POSIX shell typically
// installs handlers for.
var catchableSignals = []struct {
	name string
	sig  os.Signal
}{
	{"HUP", syscall.SIGHUP},
	{"INT", syscall.SIGINT},
	{"QUIT", syscall.SIGQUIT},
	{"TERM", syscall.SIGTERM},
	{"USR1", syscall.SIGUSR1},
	{"USR2", syscall.SIGUSR2},
	{"PIPE", syscall.SIGPIPE},
	{"CHLD", syscall.SIGCHLD},
	{"WINCH", syscall.SIGWINCH},
	{"TSTP", syscall.SIGTSTP},
	{"CONT", syscall.SIGCONT},
}

// pending holds one atomic flag per entry of catchableSignals, indexed
// the same way. It is process-global because a real OS signal handler
// cannot carry user context.
var pending = make([]int32, len(catchableSignals))

func indexOf(name string) (int, bool) {
	for i, s := range catchableSignals {
		if s.name == name {
			return i, true
		}
	}
	return -1, false
}

// Dispatcher owns the os/signal channel and the background goroutine
// that turns OS signal delivery into the pending-flag array.
type Dispatcher struct {
	ch   chan os.Signal
	stop chan struct{}
}

// NewDispatcher registers handlers for every catchable signal and starts
// the draining goroutine. Call Stop to undo this when the shell exits.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{ch: make(chan os.Signal, 64), stop: make(chan struct{})}
	sigs := make([]os.Signal, len(catchableSignals))
	for i, s := range catchableSignals {
		sigs[i] = s.sig
	}
	signal.Notify(d.ch, sigs...)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	for {
		select {
		case sig := <-d.ch:
			for i, s := range catchableSignals {
				if s.sig == sig {
					atomic.StoreInt32(&pending[i], 1)
					break
				}
			}
		case <-d.stop:
			return
		}
	}
}

// Stop unregisters the signal handlers and halts the draining goroutine.
func (d *Dispatcher) Stop() {
	signal.Stop(d.ch)
	close(d.stop)
}

// TakePending returns the names of every signal whose pending flag is
// set, clearing each flag as it is read (spec.md §4.5 "the executor
// checks pending flags at every safe point"). Call this at every safe
// point: between AST nodes, around blocking waits, after each
// redirection restore.
func TakePending() []string {
	var names []string
	for i, s := range catchableSignals {
		if atomic.CompareAndSwapInt32(&pending[i], 1, 0) {
			names = append(names, s.name)
		}
	}
	return names
}

// CatchableSignalNames lists every signal name `trap`/`kill` may refer
// to by name, in the fixed order catchableSignals declares them.
func CatchableSignalNames() []string {
	names := make([]string, len(catchableSignals))
	for i, s := range catchableSignals {
		names[i] = s.name
	}
	return names
}

// Raise is a test/bookkeeping hook that sets a signal's pending flag
// directly, without going through the OS — used by `kill` targeting the
// shell's own process and by unit tests.
func Raise(name string) bool {
	i, ok := indexOf(name)
	if !ok {
		return false
	}
	atomic.StoreInt32(&pending[i], 1)
	return true
}
