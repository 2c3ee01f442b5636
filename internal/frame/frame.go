// Package frame implements the typed execution-frame stack of spec.md
// §4 component D: a frame carries (kind, policy reference, owned or
// shared pointers to variable store, fd table, trap store, options,
// positional params, cwd, umask, function store, alias store; pending
// control-flow field; last-exit-status; parent link), with allocation
// decided entirely by the frame's static Policy (component A holds the
// individual stores this package composes).
package frame

import "os"

// ControlFlowKind tags the sum type spec.md §4.3 "Control-flow
// signalling" uses as the executor's return value: Ok, Error, NotImpl,
// Break, Continue, Return, Exit, FunctionStored.
type ControlFlowKind int

const (
	CFOk ControlFlowKind = iota
	CFError
	CFNotImpl
	CFBreak
	CFContinue
	CFReturn
	CFExit
	CFFunctionStored
)

// ControlFlow is one value of the executor's control-flow sum type.
// Break/Continue carry a level count; Return/Exit carry an exit code;
// Error carries a message.
type ControlFlow struct {
	Kind    ControlFlowKind
	Levels  int
	Code    int
	Message string
}

// Ok is the trivial "nothing propagating" control-flow value.
var Ok = ControlFlow{Kind: CFOk}

// Frame is one entry of the execution frame stack (spec.md §4.4
// "Frame"). Fields suffixed nothing are this frame's own pointer, which
// may equal the parent's (SHARE) or be freshly allocated (OWN/COPY) per
// the Policy that built it.
type Frame struct {
	Kind   Kind
	Policy Policy
	Parent *Frame

	Variables  *VariableStore
	Locals     *LocalOverlay // a function frame's own overlay, or the one a SHARE-variables child inherits from its parent
	Positional *PositionalParams
	FDs        *FDTable
	Traps      *TrapStore
	Options    *OptionSet
	Functions  *FunctionStore
	Aliases    *AliasStore
	CWD        string
	Umask      os.FileMode
	Files      *FileTable

	// Pending carries a control-flow signal a builtin wants to report
	// without its own return type having to be anything but an int exit
	// status (exit/return/break/continue set this; dispatchCommand reads
	// and clears it immediately after the builtin returns).
	Pending        ControlFlow
	LastExitStatus int

	// PGID is set once process.pgroup decides this frame starts or
	// joins a process group (spec.md §4.4 "process.pgroup").
	PGID int

	// errexitRestore undoes a trap frame's forced errexit-off when the
	// frame pops. Set only for frames whose Policy disables errexit.
	errexitRestore func()
}

// NewRoot constructs the top-level frame: OWN everything, variables
// seeded from the process environment, positional parameters from argv.
func NewRoot(arg0 string, args []string, environ []string) *Frame {
	f := &Frame{
		Kind:       KindTopLevel,
		Policy:     Policies[KindTopLevel],
		Variables:  NewVariableStore(),
		Positional: NewPositionalParams(arg0, args),
		FDs:        NewFDTable(),
		Traps:      NewTrapStore(),
		Options:    NewOptionSet(),
		Functions:  NewFunctionStore(),
		Aliases:    NewAliasStore(),
		Umask:      022,
		Files:      NewStdFileTable(),
	}
	for _, kv := range environ {
		name, value, ok := splitEnviron(kv)
		if !ok {
			continue
		}
		f.Variables.Set(name, value)
		f.Variables.SetExported(name, true)
	}
	if cwd, err := os.Getwd(); err == nil {
		f.CWD = cwd
	}
	return f
}

func splitEnviron(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

// Push constructs a child frame of the given kind, allocating each store
// according to the child's Policy: OWN gets a fresh store, COPY gets a
// deep clone of the parent's, SHARE aliases the parent's pointer.
func (parent *Frame) Push(kind Kind) *Frame {
	pol := Policies[kind]
	child := &Frame{
		Kind:           kind,
		Policy:         pol,
		Parent:         parent,
		CWD:            parent.CWD,
		Umask:          parent.Umask,
		LastExitStatus: parent.LastExitStatus,
	}

	switch pol.VariablesScope {
	case ScopeOwn:
		child.Variables = NewVariableStore()
	case ScopeCopy:
		child.Variables = parent.Variables.Clone(pol.VariablesCopyExportsOnly)
	case ScopeShare:
		child.Variables = parent.Variables
	}
	if pol.VariablesHasLocals {
		child.Locals = NewLocalOverlay(child.Variables)
	} else if pol.VariablesScope == ScopeShare {
		child.Locals = parent.Locals
	}

	switch pol.PositionalScope {
	case ScopeOwn:
		child.Positional = NewPositionalParams(parent.Positional.Arg0(), nil)
	case ScopeCopy:
		child.Positional = parent.Positional.Clone()
	case ScopeShare:
		child.Positional = parent.Positional
	}
	if pol.PositionalArg0 == Arg0Inherit {
		child.Positional.SetArg0(parent.Positional.Arg0())
	}

	switch pol.FDsScope {
	case ScopeOwn:
		child.FDs = NewFDTable()
	case ScopeCopy:
		child.FDs = parent.FDs.Clone()
	case ScopeShare:
		child.FDs = parent.FDs
	}

	switch pol.TrapsScope {
	case ScopeOwn:
		child.Traps = NewTrapStore()
	case ScopeCopy:
		child.Traps = parent.Traps.Clone(pol.TrapsResetsNonIgnored)
	case ScopeShare:
		child.Traps = parent.Traps
	}

	switch pol.OptionsScope {
	case ScopeOwn:
		child.Options = NewOptionSet()
	case ScopeCopy:
		child.Options = parent.Options.Clone()
	case ScopeShare:
		child.Options = parent.Options
	}
	if !pol.OptionsErrexitEnabled {
		child.Options = child.Options.Clone()
		child.errexitRestore = child.Options.ForceErrexitOff()
	}

	switch pol.FunctionsScope {
	case ScopeOwn:
		child.Functions = NewFunctionStore()
	case ScopeCopy:
		child.Functions = parent.Functions.Clone()
	case ScopeShare:
		child.Functions = parent.Functions
	}

	switch pol.AliasesScope {
	case ScopeOwn:
		child.Aliases = NewAliasStore()
	case ScopeCopy:
		child.Aliases = parent.Aliases.Clone()
	case ScopeShare:
		child.Aliases = parent.Aliases
	}

	if pol.ProcessForks {
		child.Files = parent.Files.Clone()
	} else {
		child.Files = parent.Files
	}

	return child
}

// Pop finalises a child frame, running its errexit restore if any, and
// returns the parent it was built from. Callers still hold their own
// Frame pointer for the child; Pop exists for the side effects, not to
// hand back the parent (use child.Parent for that).
func (child *Frame) Pop() *Frame {
	if child.errexitRestore != nil {
		child.errexitRestore()
	}
	return child.Parent
}

// IsRoot reports whether this frame has no parent.
func (f *Frame) IsRoot() bool { return f.Parent == nil }

// FindReturnTarget walks the parent chain looking for a frame `return`
// may target (spec.md §4.4 "return walks parents until it finds a frame
// with return_behavior=target, failing if it hits a subshell boundary or
// the root").
func (f *Frame) FindReturnTarget() (*Frame, bool) {
	for cur := f; cur != nil; cur = cur.Parent {
		switch cur.Policy.FlowReturnBehavior {
		case FlowTarget:
			return cur, true
		case FlowTransparent:
			if cur.Policy.ClassificationIsSubshell {
				return nil, false
			}
			continue
		default:
			return nil, false
		}
	}
	return nil, false
}

// FindLoopTarget walks the parent chain looking for a frame `break`/
// `continue` may target, honoring level counts the way spec.md §4.4
// describes for flow.loop_control.
func (f *Frame) FindLoopTarget(levels int) (*Frame, bool) {
	remaining := levels
	for cur := f; cur != nil; cur = cur.Parent {
		switch cur.Policy.FlowLoopControl {
		case FlowTarget:
			remaining--
			if remaining <= 0 {
				return cur, true
			}
			continue
		case FlowTransparent:
			if cur.Policy.ClassificationIsSubshell {
				return nil, false
			}
			continue
		default:
			return nil, false
		}
	}
	return nil, false
}

// FindExitTarget walks the parent chain looking for the frame `exit`
// terminates at (spec.md §4.4 "exit walks until exit.terminates_process
// =true").
func (f *Frame) FindExitTarget() *Frame {
	for cur := f; cur != nil; cur = cur.Parent {
		if cur.Policy.ExitTerminatesProcess {
			return cur
		}
	}
	return f
}
