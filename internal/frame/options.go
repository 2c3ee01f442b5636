package frame

// Option names the boolean shell options of spec.md §4.3 "set -e
// (errexit) ... pipefail, nounset, xtrace, noglob, noclobber, allexport,
// noexec, verbose, monitor, ignoreeof follow the same scope rules".
type Option int

const (
	OptErrexit Option = iota
	OptNounset
	OptNoglob
	OptNoclobber
	OptPipefail
	OptXtrace
	OptAllexport
	OptNoexec
	OptVerbose
	OptMonitor
	OptIgnoreeof
	OptVi
	optionCount
)

var optionNames = map[Option]string{
	OptErrexit:   "errexit",
	OptNounset:   "nounset",
	OptNoglob:    "noglob",
	OptNoclobber: "noclobber",
	OptPipefail:  "pipefail",
	OptXtrace:    "xtrace",
	OptAllexport: "allexport",
	OptNoexec:    "noexec",
	OptVerbose:   "verbose",
	OptMonitor:   "monitor",
	OptIgnoreeof: "ignoreeof",
	OptVi:        "vi",
}

func (o Option) String() string {
	if n, ok := optionNames[o]; ok {
		return n
	}
	return "unknown"
}

// OptionSet is the per-frame record of boolean shell options (spec.md
// §4.4 "options.scope"). errexitForced tracks spec.md §4.5's rule that
// errexit reads as disabled while a trap action executes, without
// destroying the user's actual errexit setting.
type OptionSet struct {
	flags         [optionCount]bool
	errexitForced bool
}

// NewOptionSet creates a set with every option off.
func NewOptionSet() *OptionSet {
	return &OptionSet{}
}

// Get reports whether opt is enabled, honoring the trap-body errexit
// override.
func (s *OptionSet) Get(opt Option) bool {
	if opt == OptErrexit && s.errexitForced {
		return false
	}
	return s.flags[opt]
}

// Set enables or disables opt.
func (s *OptionSet) Set(opt Option, enabled bool) {
	s.flags[opt] = enabled
}

// ForceErrexitOff suppresses errexit for the duration of a trap body
// (spec.md §4.4 "options.errexit_enabled: false only for trap frames").
// Call the returned restore func when the trap body finishes.
func (s *OptionSet) ForceErrexitOff() (restore func()) {
	prev := s.errexitForced
	s.errexitForced = true
	return func() { s.errexitForced = prev }
}

// Clone performs the COPY used by subshells.
func (s *OptionSet) Clone() *OptionSet {
	clone := *s
	return &clone
}

// ParseOptionName maps a long option name (as used by "set -o name") to
// its Option constant.
func ParseOptionName(name string) (Option, bool) {
	for opt, n := range optionNames {
		if n == name {
			return opt, true
		}
	}
	return 0, false
}

// ParseOptionFlag maps a single-letter bundled flag (as used by "set
// -eux") to its Option constant.
func ParseOptionFlag(flag byte) (Option, bool) {
	switch flag {
	case 'e':
		return OptErrexit, true
	case 'u':
		return OptNounset, true
	case 'f':
		return OptNoglob, true
	case 'C':
		return OptNoclobber, true
	case 'x':
		return OptXtrace, true
	case 'a':
		return OptAllexport, true
	case 'n':
		return OptNoexec, true
	case 'v':
		return OptVerbose, true
	case 'm':
		return OptMonitor, true
	default:
		return 0, false
	}
}
