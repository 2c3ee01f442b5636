package builtin

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
	"github.com/spk121/posh/internal/trap"
)

func registerJobControl(r *exec.Registry) {
	r.Register("jobs", Jobs)
	r.Register("wait", Wait)
	r.Register("kill", Kill)
}

// Jobs lists every tracked background job in "[id] state command" form,
// reaping any job already reported as done: a completed job is removed
// only once it has been reported to the user at least once.
func Jobs(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	for _, j := range ex.Jobs.All() {
		fmt.Fprintf(ex.Stdout(fr), "[%d] %s\t%s\n", j.ID, jobStateName(j.State), j.Command)
		if j.State == frame.JobDone {
			j.Notified = true
		}
	}
	ex.Jobs.Reap()
	return 0
}

func jobStateName(s frame.JobState) string {
	switch s {
	case frame.JobRunning:
		return "Running"
	case frame.JobStopped:
		return "Stopped"
	case frame.JobDone:
		return "Done"
	default:
		return "?"
	}
}

// Wait blocks until the named jobs (by %id or job ID) finish, or every
// currently tracked job if none are named, reporting the last one's exit
// status. Background jobs run as goroutines rather than real child
// processes of this one, so there is no kernel wait(2) to call here;
// this polls JobStore until the target state becomes Done, the same
// observable blocking behavior without an OS wait primitive to block
// on.
func Wait(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	ids := parseJobIDs(ex, argv[1:])
	if len(ids) == 0 {
		for _, j := range ex.Jobs.All() {
			ids = append(ids, j.ID)
		}
	}

	status := 0
	for _, id := range ids {
		for {
			j, ok := ex.Jobs.Get(id)
			if !ok {
				status = shellerr.CategoryBuiltinUsage.ExitStatus()
				break
			}
			if j.State == frame.JobDone {
				status = j.ExitCode
				j.Notified = true
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	ex.Jobs.Reap()
	return status
}

func parseJobIDs(ex *exec.Executor, args []string) []int {
	var ids []int
	for _, a := range args {
		a = strings.TrimPrefix(a, "%")
		if n, err := strconv.Atoi(a); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

// Kill delivers a signal to a process ID or, for this process's own
// PID, raises the equivalent pending trap flag directly (the same path
// a real OS signal would take through internal/trap). "%job" targets
// are rejected: a background job here is a goroutine, not a process
// group this shell's kernel ties together, so there is no PGID to
// signal.
func Kill(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]
	sigName := "TERM"
	if len(args) > 0 && args[0] == "-s" {
		if len(args) < 2 {
			fmt.Fprintln(ex.Stderr(fr), "kill: -s: signal name required")
			return shellerr.CategoryBuiltinUsage.ExitStatus()
		}
		sigName = strings.ToUpper(args[1])
		args = args[2:]
	} else if len(args) > 0 && strings.HasPrefix(args[0], "-") && args[0] != "-" {
		sigName = strings.ToUpper(strings.TrimPrefix(args[0], "-"))
		args = args[1:]
	}

	if len(args) == 0 {
		fmt.Fprintln(ex.Stderr(fr), "kill: usage: kill [-SIGNAL] pid...")
		return shellerr.CategoryBuiltinUsage.ExitStatus()
	}

	status := 0
	for _, target := range args {
		if strings.HasPrefix(target, "%") {
			fmt.Fprintf(ex.Stderr(fr), "kill: %s: job signalling is not supported\n", target)
			status = 1
			continue
		}
		pid, err := strconv.Atoi(target)
		if err != nil {
			fmt.Fprintf(ex.Stderr(fr), "kill: %s: arguments must be process IDs\n", target)
			status = shellerr.CategoryBuiltinUsage.ExitStatus()
			continue
		}
		if pid == os.Getpid() {
			if !trap.Raise(sigName) {
				fmt.Fprintf(ex.Stderr(fr), "kill: %s: unknown signal\n", sigName)
				status = 1
			}
			continue
		}
		sig, ok := signalByName(sigName)
		if !ok {
			fmt.Fprintf(ex.Stderr(fr), "kill: %s: unknown signal\n", sigName)
			status = 1
			continue
		}
		if err := syscall.Kill(pid, sig); err != nil {
			fmt.Fprintf(ex.Stderr(fr), "kill: (%d): %v\n", pid, err)
			status = 1
		}
	}
	return status
}

func signalByName(name string) (syscall.Signal, bool) {
	switch name {
	case "HUP":
		return syscall.SIGHUP, true
	case "INT":
		return syscall.SIGINT, true
	case "QUIT":
		return syscall.SIGQUIT, true
	case "KILL":
		return syscall.SIGKILL, true
	case "TERM":
		return syscall.SIGTERM, true
	case "USR1":
		return syscall.SIGUSR1, true
	case "USR2":
		return syscall.SIGUSR2, true
	case "PIPE":
		return syscall.SIGPIPE, true
	case "CHLD":
		return syscall.SIGCHLD, true
	case "CONT":
		return syscall.SIGCONT, true
	case "STOP":
		return syscall.SIGSTOP, true
	case "TSTP":
		return syscall.SIGTSTP, true
	case "WINCH":
		return syscall.SIGWINCH, true
	default:
		return 0, false
	}
}
