// Package token defines the lexical vocabulary shared by the lexer, the
// expander, and the reference parser: token classifications, word parts,
// and source positions.
package token

import "fmt"

// Position identifies a byte offset in the source together with its
// line/column for diagnostics. Columns are counted in runes, matching the
// convention of reporting positions independent of display width.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind classifies a Token as described in spec.md §3.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	WORD           // an ordinary word, possibly with expansion parts
	ASSIGNMENT     // name=value at command position
	IONUMBER       // digit run immediately preceding a redirection operator
	OPERATOR       // control operators: | || & && ; ;; ( ) etc.
	KEYWORD        // reserved words: if then else fi for while do done ...
)

func (k Kind) String() string {
	switch k {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case WORD:
		return "WORD"
	case ASSIGNMENT:
		return "ASSIGNMENT"
	case IONUMBER:
		return "IONUMBER"
	case OPERATOR:
		return "OPERATOR"
	case KEYWORD:
		return "KEYWORD"
	default:
		return "UNKNOWN"
	}
}

// Reserved words recognised only in command position (spec.md §4.1).
var Reserved = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"case": true, "esac": true, "in": true, "function": true,
	"{": true, "}": true, "!": true, "[[": true, "]]": true,
}

// Operators recognised by maximal munch, longest first so a scanner using
// this table in order never stops early.
var Operators = []string{
	"<<-", "<<", "<&", "<>", "<",
	">>", ">&", ">|", ">",
	"&&", "&",
	"||", "|",
	";;", ";",
	"(", ")",
}

// PartKind classifies one fragment of a Word's expansion list (spec.md §3).
type PartKind int

const (
	PartLiteral PartKind = iota
	PartParameter
	PartCommandSub
	PartArithmetic
	PartTilde
)

func (k PartKind) String() string {
	switch k {
	case PartLiteral:
		return "Literal"
	case PartParameter:
		return "Parameter"
	case PartCommandSub:
		return "CommandSubstitution"
	case PartArithmetic:
		return "Arithmetic"
	case PartTilde:
		return "Tilde"
	default:
		return "Unknown"
	}
}

// Part is one fragment of a word token. Exactly one of the fields below is
// meaningful, selected by Kind.
//
// Invariants (spec.md §3 "Invariants on Parts"):
//   - A Literal produced inside single quotes has both WasSingleQuoted and
//     WasDoubleQuoted set.
//   - A Literal produced inside double quotes has WasDoubleQuoted only.
//   - Parameter/CommandSub/Arithmetic/Tilde parts never carry
//     WasSingleQuoted: the lexer cannot produce them while inside a single
//     quote, since single quotes suppress all sub-lexing.
type Part struct {
	Kind PartKind

	// Literal holds raw text for PartLiteral.
	Literal string

	// Text holds the lexer-opaque body for PartParameter (the bytes between
	// $ and the end of the expansion, minus any enclosing braces),
	// PartCommandSub (the bytes between $( and the matching )), or
	// PartArithmetic (the bytes between $(( and the matching )) ).
	Text string

	// Backtick marks that a PartCommandSub came from `...` rather than
	// $(...); backslash-escaping rules differ slightly between the two
	// (spec.md §4.1).
	Backtick bool

	WasSingleQuoted bool
	WasDoubleQuoted bool
}

// Word is the parsed content of a WORD or ASSIGNMENT token: an ordered list
// of Parts plus the three "needs" flags the lexer computes as it scans.
type Word struct {
	Parts []Part

	NeedsExpansion        bool
	NeedsFieldSplitting   bool
	NeedsPathnameExpansion bool
}

// Token is one lexical unit produced by the lexer and consumed by the
// parser (an external collaborator; see SPEC_FULL.md §1).
type Token struct {
	Kind Kind
	Pos  Position

	// Raw is the literal source text of the token (used for operators,
	// keywords, and io-numbers, and for diagnostics on words).
	Raw string

	// Word is populated for WORD and ASSIGNMENT tokens.
	Word Word

	// AssignName holds the name of an ASSIGNMENT token's "name=value",
	// split at the first '=' once the lexer has confirmed a valid name
	// prefix; Word then holds only the value.
	AssignName string

	// HeredocID indexes into the lexer's resolved heredoc bodies for a
	// "<<"/"<<-" OPERATOR token, or -1 if this token has none.
	HeredocID int
}

// IsNameStart reports whether r may begin a shell variable or function
// name (spec.md §3 "Variable entry").
func IsNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsNameChar reports whether r may appear after the first character of a
// shell variable or function name.
func IsNameChar(r rune) bool {
	return IsNameStart(r) || (r >= '0' && r <= '9')
}

func (t Token) String() string {
	if t.Kind == WORD || t.Kind == ASSIGNMENT {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Raw)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Raw, t.Pos)
}
