// Package ast defines the syntax-tree node kinds the Executor walks
// (spec.md §4.3 "AST node kinds handled"). Building an AST from tokens is
// the parser's job — an external collaborator per spec.md §1 — but the
// node shapes themselves are part of the contract between the parser and
// the core, so they live here rather than inside internal/parser.
//
// Node kinds are modelled as one struct per kind with a Node marker
// method, dispatched by the executor through a type switch (spec.md §9
// "Polymorphic AST & Parts": tagged sum types, no virtual tables).
package ast

import "github.com/spk121/posh/internal/token"

// Node is implemented by every AST node kind the executor understands.
type Node interface {
	node()
}

// Word is a parsed word ready for expansion: a lexer Word plus the raw
// source text, kept together for diagnostics.
type Word struct {
	Raw  string
	Word token.Word
}

// RedirOp enumerates the redirection operators of spec.md §4.3
// "Redirection engine".
type RedirOp int

const (
	RedirRead       RedirOp = iota // n< file
	RedirWrite                     // n> file
	RedirAppend                    // n>> file
	RedirReadWrite                 // n<> file
	RedirDupIn                     // n<&m or n<&-
	RedirDupOut                    // n>&m or n>&-
	RedirClobber                   // n>| file
	RedirHeredoc                   // n<<word
	RedirHeredocTab                // n<<-word (strips leading tabs)
)

// Redirect is one redirection attached to a command or compound command.
type Redirect struct {
	Fd        int  // target fd; -1 means "use the operator's default"
	HasFd     bool // true if an explicit n was written
	Op        RedirOp
	Target    Word   // file path, or "m"/"-" for dup forms
	HeredocID int    // index into the owning parser's resolved heredoc bodies, for RedirHeredoc*
}

// SimpleCommand is one command word list with its assignment prefixes and
// attached redirections (spec.md §4.3 "Command resolution precedence").
type SimpleCommand struct {
	Assigns   []Assignment
	Words     []Word
	Redirects []Redirect
}

// Assignment is one "name=value" prefix on a simple command.
type Assignment struct {
	Name  string
	Value Word
}

// Pipeline is a sequence of commands connected by "|", optionally negated
// by a leading "!" (spec.md §4.3 "Pipeline").
type Pipeline struct {
	Negate   bool
	Commands []Node
}

// AndOrOp is "&&" or "||".
type AndOrOp int

const (
	AndOp AndOrOp = iota
	OrOp
)

// AndOr is a left-associative chain of pipelines joined by && / ||.
type AndOr struct {
	First Node
	Rest  []AndOrTerm
}

// AndOrTerm is one "op pipeline" step following AndOr.First.
type AndOrTerm struct {
	Op   AndOrOp
	Node Node
}

// List is a sequence of AND/OR lists separated by ";" or run in the
// background with a trailing "&" (spec.md §4.3 "command list").
type List struct {
	Items []ListItem
}

// ListItem is one element of a List.
type ListItem struct {
	Node       Node
	Background bool
}

// Subshell is "( list )" (spec.md §4.3 "Subshell").
type Subshell struct {
	Body      Node
	Redirects []Redirect
}

// BraceGroup is "{ list ; }" (spec.md §4.3 "Brace group").
type BraceGroup struct {
	Body      Node
	Redirects []Redirect
}

// If is "if cond then body [elif cond then body]... [else body] fi".
type If struct {
	Branches  []IfBranch
	Else      Node // nil if no else clause
	Redirects []Redirect
}

// IfBranch is one "cond then body" clause of an If (the initial if, or an
// elif).
type IfBranch struct {
	Cond Node
	Body Node
}

// LoopKind distinguishes while from until.
type LoopKind int

const (
	LoopWhile LoopKind = iota
	LoopUntil
)

// Loop is "while/until cond do body done".
type Loop struct {
	Kind      LoopKind
	Cond      Node
	Body      Node
	Redirects []Redirect
}

// For is "for name [in words] do body done". InWords is nil when the
// "in ..." clause is omitted, meaning iterate over "$@".
type For struct {
	Name      string
	InWords   []Word
	HasIn     bool
	Body      Node
	Redirects []Redirect
}

// CaseItem is one "pattern[|pattern...]) body ;;" clause.
type CaseItem struct {
	Patterns []Word
	Body     Node // nil for an empty body
}

// Case is "case word in item... esac".
type Case struct {
	Subject   Word
	Items     []CaseItem
	Redirects []Redirect
}

// FuncDef is "name() body" (spec.md §4.3 "Function definition").
type FuncDef struct {
	Name string
	Body Node
}

func (*SimpleCommand) node() {}
func (*Pipeline) node()      {}
func (*AndOr) node()         {}
func (*List) node()          {}
func (*Subshell) node()      {}
func (*BraceGroup) node()    {}
func (*If) node()            {}
func (*Loop) node()          {}
func (*For) node()           {}
func (*Case) node()          {}
func (*FuncDef) node()       {}
