package frame

// Kind enumerates the frame kinds of spec.md §4.4: "a static policy with
// exactly these fields ... keyed by frame kind (top-level, subshell,
// brace-group, function, loop, trap, background, pipeline-orchestrator,
// pipeline-member, dot-script, eval)".
type Kind int

const (
	KindTopLevel Kind = iota
	KindSubshell
	KindBraceGroup
	KindFunction
	KindLoop
	KindTrap
	KindBackground
	KindPipelineOrchestrator
	KindPipelineMember
	KindDotScript
	KindEval
)

func (k Kind) String() string {
	switch k {
	case KindTopLevel:
		return "top-level"
	case KindSubshell:
		return "subshell"
	case KindBraceGroup:
		return "brace-group"
	case KindFunction:
		return "function"
	case KindLoop:
		return "loop"
	case KindTrap:
		return "trap"
	case KindBackground:
		return "background"
	case KindPipelineOrchestrator:
		return "pipeline-orchestrator"
	case KindPipelineMember:
		return "pipeline-member"
	case KindDotScript:
		return "dot-script"
	case KindEval:
		return "eval"
	default:
		return "unknown"
	}
}

// Scope is shared by every "X.scope" policy field (spec.md §9 "OWN /
// COPY / SHARE — respectively, fresh state; deep snapshot of parent;
// pointer-shared with parent").
type Scope int

const (
	ScopeOwn Scope = iota
	ScopeCopy
	ScopeShare
)

// PGroup is spec.md §4.4's "process.pgroup" field.
type PGroup int

const (
	PGroupNone PGroup = iota
	PGroupStartNew
	PGroupJoinPipeline
)

// Arg0Policy is spec.md §4.4's "positional.arg0" field.
type Arg0Policy int

const (
	Arg0InitFromShellArgv Arg0Policy = iota
	Arg0Inherit
	Arg0SetToSourcedPath
)

// ArgnInit is spec.md §4.4's "positional.argn_init" field.
type ArgnInit int

const (
	ArgnNotApplicable ArgnInit = iota
	ArgnFromShellArgv
	ArgnFromCallArgs
)

// FlowBehavior is shared by "flow.return_behavior" and
// "flow.loop_control" (spec.md §4.4).
type FlowBehavior int

const (
	FlowDisallowed FlowBehavior = iota
	FlowTransparent
	FlowTarget
)

// Policy is the immutable per-kind record of spec.md §4.4, describing
// how a frame of a given Kind differs from its parent. Field names and
// grouping mirror the spec's table exactly.
type Policy struct {
	ProcessForks           bool
	ProcessPGroup          PGroup
	ProcessIsPipelineMember bool

	VariablesScope          Scope
	VariablesInitFromEnvp   bool
	VariablesCopyExportsOnly bool
	VariablesHasLocals      bool

	PositionalScope      Scope
	PositionalArg0       Arg0Policy
	PositionalArgnInit   ArgnInit
	PositionalCanOverride bool

	FDsScope Scope

	TrapsScope            Scope
	TrapsResetsNonIgnored bool
	TrapsExitTrapRuns     bool

	OptionsScope           Scope
	OptionsErrexitEnabled  bool

	CWDScope   Scope
	UmaskScope Scope

	FunctionsScope Scope
	AliasesScope   Scope

	FlowReturnBehavior FlowBehavior
	FlowLoopControl    FlowBehavior

	ExitTerminatesProcess bool
	ExitAffectsParentStatus bool

	ClassificationIsSubshell   bool
	ClassificationIsBackground bool
}

// Policies is the static policy table, indexed by Kind, built directly
// from spec.md §4.4's per-kind value callouts and §4.3's narrative
// description of each construct.
var Policies = map[Kind]Policy{
	KindTopLevel: {
		ProcessForks: false, ProcessPGroup: PGroupStartNew,
		VariablesScope: ScopeOwn, VariablesInitFromEnvp: true,
		PositionalScope: ScopeOwn, PositionalArg0: Arg0InitFromShellArgv, PositionalArgnInit: ArgnFromShellArgv,
		FDsScope: ScopeOwn,
		TrapsScope: ScopeOwn, TrapsExitTrapRuns: true,
		OptionsScope: ScopeOwn, OptionsErrexitEnabled: true,
		CWDScope: ScopeOwn, UmaskScope: ScopeOwn,
		FunctionsScope: ScopeOwn, AliasesScope: ScopeOwn,
		FlowReturnBehavior: FlowDisallowed, FlowLoopControl: FlowDisallowed,
		ExitTerminatesProcess: true, ExitAffectsParentStatus: false,
	},
	KindSubshell: {
		ProcessForks: true, ProcessPGroup: PGroupNone,
		VariablesScope: ScopeCopy,
		PositionalScope: ScopeCopy, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeCopy,
		TrapsScope: ScopeCopy, TrapsResetsNonIgnored: true, TrapsExitTrapRuns: true,
		OptionsScope: ScopeCopy, OptionsErrexitEnabled: true,
		CWDScope: ScopeCopy, UmaskScope: ScopeCopy,
		FunctionsScope: ScopeCopy, AliasesScope: ScopeCopy,
		FlowReturnBehavior: FlowDisallowed, FlowLoopControl: FlowDisallowed,
		ExitTerminatesProcess: true, ExitAffectsParentStatus: true,
		ClassificationIsSubshell: true,
	},
	KindBraceGroup: {
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeOwn,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTransparent, FlowLoopControl: FlowTransparent,
		ExitAffectsParentStatus: true,
	},
	KindFunction: {
		VariablesScope: ScopeShare, VariablesHasLocals: true,
		PositionalScope: ScopeOwn, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnFromCallArgs,
		FDsScope: ScopeShare,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTarget, FlowLoopControl: FlowDisallowed,
		ExitAffectsParentStatus: true,
	},
	KindLoop: {
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeOwn,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTransparent, FlowLoopControl: FlowTarget,
		ExitAffectsParentStatus: true,
	},
	KindTrap: {
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeOwn,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: false,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowDisallowed, FlowLoopControl: FlowDisallowed,
		ExitAffectsParentStatus: false,
	},
	KindBackground: {
		ProcessForks: true, ProcessPGroup: PGroupStartNew,
		VariablesScope: ScopeCopy, VariablesCopyExportsOnly: true,
		PositionalScope: ScopeCopy, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeCopy,
		TrapsScope: ScopeCopy, TrapsResetsNonIgnored: true, TrapsExitTrapRuns: true,
		OptionsScope: ScopeCopy, OptionsErrexitEnabled: true,
		CWDScope: ScopeCopy, UmaskScope: ScopeCopy,
		FunctionsScope: ScopeCopy, AliasesScope: ScopeCopy,
		FlowReturnBehavior: FlowDisallowed, FlowLoopControl: FlowDisallowed,
		ExitTerminatesProcess: true, ExitAffectsParentStatus: false,
		ClassificationIsBackground: true,
	},
	KindPipelineOrchestrator: {
		ProcessPGroup: PGroupStartNew,
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeOwn,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTransparent, FlowLoopControl: FlowTransparent,
		ExitAffectsParentStatus: true,
	},
	KindPipelineMember: {
		ProcessForks: true, ProcessPGroup: PGroupJoinPipeline, ProcessIsPipelineMember: true,
		VariablesScope: ScopeCopy,
		PositionalScope: ScopeCopy, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeCopy,
		TrapsScope: ScopeCopy, TrapsResetsNonIgnored: true,
		OptionsScope: ScopeCopy, OptionsErrexitEnabled: true,
		CWDScope: ScopeCopy, UmaskScope: ScopeCopy,
		FunctionsScope: ScopeCopy, AliasesScope: ScopeCopy,
		FlowReturnBehavior: FlowDisallowed, FlowLoopControl: FlowDisallowed,
		ExitTerminatesProcess: true, ExitAffectsParentStatus: false,
		ClassificationIsSubshell: true,
	},
	KindDotScript: {
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0SetToSourcedPath, PositionalArgnInit: ArgnNotApplicable, PositionalCanOverride: true,
		FDsScope: ScopeShare,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTarget, FlowLoopControl: FlowTransparent,
		ExitAffectsParentStatus: true,
	},
	KindEval: {
		VariablesScope: ScopeShare,
		PositionalScope: ScopeShare, PositionalArg0: Arg0Inherit, PositionalArgnInit: ArgnNotApplicable,
		FDsScope: ScopeShare,
		TrapsScope: ScopeShare,
		OptionsScope: ScopeShare, OptionsErrexitEnabled: true,
		CWDScope: ScopeShare, UmaskScope: ScopeShare,
		FunctionsScope: ScopeShare, AliasesScope: ScopeShare,
		FlowReturnBehavior: FlowTransparent, FlowLoopControl: FlowTransparent,
		ExitAffectsParentStatus: true,
	},
}
