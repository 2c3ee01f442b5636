// Package shellflags scans the POSIX-style bundled single-dash option
// strings (as in set -eux; cmd/posh uses it for the run subcommand's
// --set value) that cobra's GNU-style flag parser cannot
// model: a run of short option letters behind one dash, optionally
// negated with a leading "+" the way "set" itself accepts. Everything
// else on the command line (subcommands, --long flags) still goes
// through cobra in cmd/posh/cmd.
package shellflags

import "github.com/spk121/posh/internal/frame"

// Toggle is one option letter scanned from a bundle, with the
// enable/disable sense its leading "-" or "+" selected.
type Toggle struct {
	Option frame.Option
	Enable bool
}

// Scan reports whether arg looks like a bundled option group ("-eux",
// "+x", but not "-" or "--" or a long "--flag") and, if so, the toggles
// it spells out. An unrecognized letter anywhere in the bundle makes the
// whole argument fail to scan, so callers can fall back to treating it
// as an ordinary operand.
func Scan(arg string) ([]Toggle, bool) {
	if len(arg) < 2 {
		return nil, false
	}
	if arg[0] != '-' && arg[0] != '+' {
		return nil, false
	}
	if arg[0] == '-' && arg[1] == '-' {
		return nil, false
	}

	enable := arg[0] == '-'
	toggles := make([]Toggle, 0, len(arg)-1)
	for i := 1; i < len(arg); i++ {
		opt, ok := frame.ParseOptionFlag(arg[i])
		if !ok {
			return nil, false
		}
		toggles = append(toggles, Toggle{Option: opt, Enable: enable})
	}
	return toggles, true
}

// Apply sets every toggle on set in order, later toggles in the same
// bundle winning over earlier ones for the same option (mirroring how a
// repeated letter in "-ee" would behave: harmlessly, since both say the
// same thing).
func Apply(set *frame.OptionSet, toggles []Toggle) {
	for _, tg := range toggles {
		set.Set(tg.Option, tg.Enable)
	}
}
