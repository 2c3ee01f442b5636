package lexer

import (
	"strings"

	"github.com/spk121/posh/internal/token"
)

// heredocRequest records a pending "<<"/"<<-" operator until the current
// logical line's NEWLINE is reached (spec.md §4.1 "Heredoc").
type heredocRequest struct {
	stripTabs bool
	delimiter string
	quoted    bool
	hasDelim  bool
}

// openHeredocRequest registers a new heredoc request and arranges for the
// very next WORD token to be consumed as its delimiter. It returns the
// index to stamp onto the operator token's HeredocID.
func (l *Lexer) openHeredocRequest(stripTabs bool) int {
	l.pendingHeredocs = append(l.pendingHeredocs, &heredocRequest{stripTabs: stripTabs})
	id := len(l.pendingHeredocs) - 1
	l.awaitingDelim = id
	return id
}

// maybeConsumeHeredocDelim captures tok as the delimiter word for the
// most recently opened heredoc request, if one is awaiting its delimiter.
func (l *Lexer) maybeConsumeHeredocDelim(tok token.Token) {
	if l.awaitingDelim < 0 || l.awaitingDelim >= len(l.pendingHeredocs) {
		return
	}
	req := l.pendingHeredocs[l.awaitingDelim]
	if req.hasDelim {
		return
	}
	req.hasDelim = true
	req.quoted = wordIsQuoted(tok.Word)
	req.delimiter = literalText(tok.Word)
	l.awaitingDelim = -1
}

func wordIsQuoted(w token.Word) bool {
	for _, p := range w.Parts {
		if p.WasSingleQuoted || p.WasDoubleQuoted {
			return true
		}
	}
	return false
}

func literalText(w token.Word) string {
	var sb strings.Builder
	for _, p := range w.Parts {
		if p.Kind == token.PartLiteral {
			sb.WriteString(p.Literal)
		}
	}
	return sb.String()
}

// readRawLine reads runes up to and including the next newline (which is
// consumed but not included in the returned line), or up to EOF. ok is
// false when EOF was reached before a newline.
func (l *Lexer) readRawLine() (line string, ok bool) {
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	line = l.input[start:l.position]
	if l.ch == '\n' {
		l.readChar()
		return line, true
	}
	return line, false
}

// collectHeredocs reads the body of every pending heredoc request from
// the lines immediately following the current NEWLINE, in the order
// their operators were scanned, and appends the resolved Word for each
// to l.heredocBodies so it can be looked up by HeredocID.
func (l *Lexer) collectHeredocs() {
	for _, req := range l.pendingHeredocs {
		var lines []string
		for {
			line, hadNewline := l.readRawLine()
			cmp := line
			if req.stripTabs {
				cmp = strings.TrimLeft(cmp, "\t")
			}
			if req.hasDelim && cmp == req.delimiter {
				break
			}
			if req.stripTabs {
				line = strings.TrimLeft(line, "\t")
			}
			lines = append(lines, line)
			if !hadNewline {
				l.addError(ErrBadHeredocTerm, l.currentPos(), "heredoc at EOF without matching delimiter '"+req.delimiter+"'")
				break
			}
		}
		body := strings.Join(lines, "\n")
		if len(lines) > 0 {
			body += "\n"
		}

		var word token.Word
		if req.quoted {
			word = token.Word{Parts: []token.Part{{Kind: token.PartLiteral, Literal: body, WasDoubleQuoted: true}}}
		} else {
			word = l.scanExpandableText(body)
		}
		l.heredocBodies = append(l.heredocBodies, word)
	}
	l.pendingHeredocs = l.pendingHeredocs[:0]
}

// Heredoc returns the resolved body Word for a "<<"/"<<-" operator
// token's HeredocID. It is only valid after the NEWLINE ending that
// operator's line has been consumed from NextToken.
func (l *Lexer) Heredoc(id int) (token.Word, bool) {
	if id < 0 || id >= len(l.heredocBodies) {
		return token.Word{}, false
	}
	return l.heredocBodies[id], true
}

// ParseEmbeddedWord re-lexes a raw string for parameter, command, and
// arithmetic expansion with no field splitting or pathname expansion. It
// is exported so internal/expand can reparse the opaque body text of a
// "${...}" default/alternate/error-message operand (spec.md §4.1: "full
// operator syntax ... is accepted by the lexer as an opaque body and
// reparsed at expansion time") without duplicating the lexer's
// sub-lexing rules.
func ParseEmbeddedWord(raw string) token.Word {
	return (*Lexer)(nil).scanExpandableText(raw)
}

// scanExpandableText re-lexes a raw heredoc body for parameter, command,
// and arithmetic expansion with no field splitting or pathname expansion
// (spec.md §4.1, resolving the Open Question in spec.md §9 in favor of
// full unquoted-heredoc expansion rather than the source's partial
// implementation).
func (l *Lexer) scanExpandableText(raw string) token.Word {
	sub := newSubLexer(raw)
	var parts []token.Part
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: lit.String(), WasDoubleQuoted: true})
			lit.Reset()
		}
	}
	for sub.ch != 0 {
		switch {
		case sub.ch == '\\':
			nxt := sub.peekChar()
			switch nxt {
			case '$', '`', '\\':
				sub.readChar()
				lit.WriteRune(sub.ch)
				sub.readChar()
			case '\n':
				sub.readChar()
				sub.readChar()
			default:
				lit.WriteRune('\\')
				sub.readChar()
			}
		case sub.ch == '$':
			if part, ok := sub.scanDollar(true); ok {
				flush()
				parts = append(parts, part)
			} else {
				lit.WriteRune('$')
			}
		case sub.ch == '`':
			part := sub.scanBacktick(true)
			flush()
			parts = append(parts, part)
		default:
			lit.WriteRune(sub.ch)
			sub.readChar()
		}
	}
	flush()
	word := buildWord(parts)
	word.NeedsFieldSplitting = false
	word.NeedsPathnameExpansion = false
	return word
}
