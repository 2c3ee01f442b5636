package builtin

import (
	"fmt"
	"strconv"

	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
	"github.com/spk121/posh/internal/trap"
)

func registerTrap(r *exec.Registry) {
	r.Register("trap", Trap)
}

// Trap installs, removes, or lists signal actions in fr.Traps. With no
// operands it lists every installed trap as "trap -- 'command' NAME".
// "trap -l" lists valid signal names instead. "trap NAME..." (every
// operand is a catchable signal name, EXIT, or an integer) removes
// the named traps, restoring default disposition. Otherwise the first
// operand is the action ("-" means restore default, "" means ignore)
// and the rest are the signal names it applies to.
func Trap(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]

	if len(args) == 1 && args[0] == "-l" {
		for _, name := range trap.CatchableSignalNames() {
			fmt.Fprintln(ex.Stdout(fr), name)
		}
		return 0
	}

	if len(args) == 0 {
		fr.Traps.Range(func(name string, action frame.TrapAction) {
			if action.Ignore {
				fmt.Fprintf(ex.Stdout(fr), "trap -- '' %s\n", name)
				return
			}
			fmt.Fprintf(ex.Stdout(fr), "trap -- %s %s\n", shellQuote(action.Command), name)
		})
		return 0
	}

	if isRemoveForm(args) {
		for _, name := range args {
			fr.Traps.Unset(name)
		}
		return 0
	}

	action := args[0]
	names := args[1:]
	if len(names) == 0 {
		fmt.Fprintln(ex.Stderr(fr), "trap: usage: trap [action] signal...")
		return shellerr.CategoryBuiltinUsage.ExitStatus()
	}

	status := 0
	for _, name := range names {
		var ta frame.TrapAction
		switch action {
		case "-":
			fr.Traps.Unset(name)
			continue
		case "":
			ta = frame.TrapAction{Ignore: true}
		default:
			ta = frame.TrapAction{Command: action}
		}
		if err := fr.Traps.Set(name, ta); err != nil {
			fmt.Fprintln(ex.Stderr(fr), err)
			status = 1
		}
	}
	return status
}

// isRemoveForm reports whether args is a bare list of signal
// names/numbers to remove rather than "action name...": true only when
// every operand parses as a catchable signal name or a small integer,
// since a real action string practically never matches that shape.
func isRemoveForm(args []string) bool {
	valid := trap.CatchableSignalNames()
	for _, a := range args {
		if _, err := strconv.Atoi(a); err == nil {
			continue
		}
		if a == frame.ExitPseudoSignal {
			continue
		}
		found := false
		for _, n := range valid {
			if n == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func shellQuote(s string) string {
	return "'" + s + "'"
}
