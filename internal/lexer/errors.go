package lexer

import (
	"fmt"

	"github.com/spk121/posh/internal/token"
)

// ErrorKind distinguishes the structural lexer failures spec.md §4.1
// enumerates under "Failure semantics".
type ErrorKind int

const (
	ErrUnterminatedQuote ErrorKind = iota
	ErrUnterminatedExpansion
	ErrBadHeredocTerm
	ErrIncomplete
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnterminatedQuote:
		return "unterminated quote"
	case ErrUnterminatedExpansion:
		return "unterminated expansion"
	case ErrBadHeredocTerm:
		return "invalid heredoc termination"
	case ErrIncomplete:
		return "incomplete input"
	default:
		return "lexer error"
	}
}

// LexError reports a structural lexer failure together with the position
// it was detected at. Interactive callers treat ErrIncomplete-class errors
// as a request for more input; script-mode callers treat them as fatal.
type LexError struct {
	Kind ErrorKind
	Pos  token.Position
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
}

// Incomplete reports whether this error means "the lexer needs more input
// before it can finish the current token" (spec.md §4.1): an interactive
// reader should issue a secondary prompt (PS2) and append more text rather
// than reporting failure immediately.
func (e *LexError) Incomplete() bool {
	switch e.Kind {
	case ErrUnterminatedQuote, ErrUnterminatedExpansion, ErrBadHeredocTerm, ErrIncomplete:
		return true
	default:
		return false
	}
}
