package builtin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
)

func registerEnv(r *exec.Registry) {
	r.Register("export", Export)
	r.Register("unset", Unset)
	r.Register("local", Local)
	r.Register("shift", Shift)
	r.Register("set", Set)
}

// Export marks each named variable exported, optionally assigning it a
// value first ("export NAME=value"). With no operands, or with -p, it
// lists every currently exported variable as "export NAME=value".
func Export(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]
	listOnly := false
	if len(args) > 0 && args[0] == "-p" {
		listOnly = true
		args = args[1:]
	}
	if listOnly || len(args) == 0 {
		listExported(ex, fr)
		return 0
	}
	store := exec.VarTarget(fr)
	for _, a := range args {
		name, value, hasValue := strings.Cut(a, "=")
		if !frame.IsValidName(name) {
			fmt.Fprintf(ex.Stderr(fr), "export: %s: not a valid identifier\n", name)
			return shellerr.CategoryBuiltinUsage.ExitStatus()
		}
		if hasValue {
			if err := store.Set(name, value); err != nil {
				fmt.Fprintln(ex.Stderr(fr), err)
				return 1
			}
		}
		store.SetExported(name, true)
	}
	return 0
}

func listExported(ex *exec.Executor, fr *frame.Frame) {
	var names []string
	exec.VarTarget(fr).Range(func(v *frame.Variable) {
		if v.Exported {
			names = append(names, v.Name)
		}
	})
	sort.Strings(names)
	for _, name := range names {
		v, _ := exec.VarTarget(fr).Get(name)
		fmt.Fprintf(ex.Stdout(fr), "export %s=%s\n", name, v.Value)
	}
}

// Unset removes a variable (default, or with -v) or a function
// definition (with -f).
func Unset(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]
	asFunction := false
	for len(args) > 0 && (args[0] == "-f" || args[0] == "-v") {
		asFunction = args[0] == "-f"
		args = args[1:]
	}
	status := 0
	for _, name := range args {
		if asFunction {
			fr.Functions.Unset(name)
			continue
		}
		if err := exec.VarTarget(fr).Unset(name); err != nil {
			fmt.Fprintln(ex.Stderr(fr), err)
			status = 1
		}
	}
	return status
}

// Local declares each named variable local to the current function
// frame's locals overlay, optionally assigning it a value ("local
// x=1"). Outside a function frame this is a usage error, since there is
// no overlay to declare into.
func Local(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	if fr.Locals == nil {
		fmt.Fprintln(ex.Stderr(fr), "local: can only be used inside a function")
		return shellerr.CategoryBuiltinUsage.ExitStatus()
	}
	for _, a := range argv[1:] {
		name, value, _ := strings.Cut(a, "=")
		if !frame.IsValidName(name) {
			fmt.Fprintf(ex.Stderr(fr), "local: %s: not a valid identifier\n", name)
			return shellerr.CategoryBuiltinUsage.ExitStatus()
		}
		fr.Locals.Declare(name, value)
	}
	return 0
}

// Shift renumbers positional parameters, dropping the first n (default
// 1). Shifting past the current count is an error.
func Shift(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	n := 1
	if len(argv) > 1 {
		v, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(ex.Stderr(fr), "shift: %s: numeric argument required\n", argv[1])
			return shellerr.CategoryBuiltinUsage.ExitStatus()
		}
		n = v
	}
	if err := fr.Positional.Shift(n); err != nil {
		fmt.Fprintln(ex.Stderr(fr), err)
		return 1
	}
	return 0
}

// Set toggles shell options given as bundled short flags ("-eu"), long
// form ("-o errexit"), their "+"-prefixed disabling counterparts, and
// replaces the positional parameters with whatever operands follow "--"
// or the last recognized option group.
func Set(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	args := argv[1:]
	i := 0
	sawDashDash := false
	for i < len(args) {
		a := args[i]
		if a == "--" {
			i++
			sawDashDash = true
			break
		}
		if len(a) < 2 || (a[0] != '-' && a[0] != '+') {
			break
		}
		enable := a[0] == '-'
		if a == "-o" || a == "+o" {
			i++
			if i >= len(args) {
				fmt.Fprintln(ex.Stderr(fr), "set: -o: option name required")
				return shellerr.CategoryBuiltinUsage.ExitStatus()
			}
			opt, ok := frame.ParseOptionName(args[i])
			if !ok {
				fmt.Fprintf(ex.Stderr(fr), "set: %s: unknown option\n", args[i])
				return shellerr.CategoryBuiltinUsage.ExitStatus()
			}
			fr.Options.Set(opt, enable)
			i++
			continue
		}
		for _, flag := range []byte(a[1:]) {
			opt, ok := frame.ParseOptionFlag(flag)
			if !ok {
				fmt.Fprintf(ex.Stderr(fr), "set: %c: unknown option\n", flag)
				return shellerr.CategoryBuiltinUsage.ExitStatus()
			}
			fr.Options.Set(opt, enable)
		}
		i++
	}
	if sawDashDash || i < len(args) {
		fr.Positional.SetAll(args[i:])
	}
	return 0
}
