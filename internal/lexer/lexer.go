// Package lexer implements the mode-stack tokeniser of spec.md §4.1:
// component (B), "Lexer", of SPEC_FULL.md §4's component table.
//
// The scanning style (rune-at-a-time with an explicit readChar/peekChar
// pair, a Position{Line,Column,Offset} cursor, and a functional-options
// constructor) is grounded on the teacher's internal/lexer.Lexer
// (github.com/cwbudde/go-dws). What differs is the state the scanner
// tracks while inside a word: a double-quote flag decides whether
// blanks, operators, single quotes and '~' are special, and '$' and '`'
// hand off to a dedicated sub-scanner for each expansion form. The Mode
// type of modes.go names these states; the word scanner does not push
// or pop it.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/spk121/posh/internal/token"
)

// Lexer tokenises POSIX shell source text.
type Lexer struct {
	input        string
	position     int // byte offset of ch
	readPosition int // byte offset just past ch
	line         int
	column       int
	ch           rune

	errors []*LexError

	// atCommandPos tracks spec.md §4.1's "command position": true at the
	// start of input, after a list/pipe separator, after a keyword that
	// opens a new command list, and after an assignment-word prefix.
	atCommandPos bool

	// pendingHeredocs holds heredoc requests opened by a `<<`/`<<-`
	// operator on the current logical line, in the order their operator
	// tokens were scanned; resolved when the line's NEWLINE is reached.
	pendingHeredocs []*heredocRequest
	awaitingDelim   int // index into pendingHeredocs awaiting its delimiter word, or -1

	// heredocBodies holds resolved heredoc bodies, indexed by HeredocID.
	heredocBodies []token.Word

	tokenBuf []token.Token
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// New creates a Lexer over already-decoded source text. Callers reading
// from a file or other byte source should pass it through PrepareSource
// first to strip a BOM and validate UTF-8.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:        input,
		line:         1,
		atCommandPos: true,
		awaitingDelim: -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func newSubLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, awaitingDelim: -1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// peekCharN returns the rune n positions ahead of the current read
// position without consuming anything; peekCharN(1) == peekChar().
func (l *Lexer) peekCharN(n int) rune {
	pos := l.readPosition
	for i := 0; i < n-1 && pos < len(l.input); i++ {
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) addError(kind ErrorKind, pos token.Position, msg string) {
	l.errors = append(l.errors, &LexError{Kind: kind, Pos: pos, Msg: msg})
}

// Errors returns the structural lexer errors accumulated so far.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// NextToken returns the next Token, consuming it.
func (l *Lexer) NextToken() token.Token {
	if len(l.tokenBuf) > 0 {
		tok := l.tokenBuf[0]
		l.tokenBuf = l.tokenBuf[1:]
		return tok
	}
	return l.nextTokenInternal()
}

// Peek returns the token n positions ahead without consuming it.
// Peek(0) is equivalent to the next call to NextToken.
func (l *Lexer) Peek(n int) token.Token {
	for len(l.tokenBuf) <= n {
		l.tokenBuf = append(l.tokenBuf, l.nextTokenInternal())
	}
	return l.tokenBuf[n]
}

func mk(kind token.Kind, raw string, pos token.Position) token.Token {
	return token.Token{Kind: kind, Raw: raw, Pos: pos, HeredocID: -1}
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isWordBoundary(r rune) bool {
	switch r {
	case 0, ' ', '\t', '\n', '<', '>', '|', '&', ';', '(', ')':
		return true
	default:
		return false
	}
}

// nextTokenInternal scans past whitespace and comments, then dispatches
// to operator, io-number, or word scanning.
func (l *Lexer) nextTokenInternal() token.Token {
	for {
		for isBlank(l.ch) {
			l.readChar()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}

	pos := l.currentPos()

	if l.ch == 0 {
		if len(l.pendingHeredocs) > 0 {
			l.addError(ErrBadHeredocTerm, pos, "end of input while looking for heredoc delimiter")
		}
		return mk(token.EOF, "", pos)
	}

	if l.ch == '\n' {
		l.readChar()
		if len(l.pendingHeredocs) > 0 {
			l.collectHeredocs()
		}
		l.atCommandPos = true
		return mk(token.NEWLINE, "\n", pos)
	}

	if l.ch == '\\' && l.peekChar() == '\n' {
		l.readChar()
		l.readChar()
		return l.nextTokenInternal()
	}

	switch l.ch {
	case '<', '>', '|', '&', ';', '(', ')':
		tok := l.scanOperator(pos)
		l.updateCommandPosAfterOperator(tok)
		return tok
	}

	if l.ch >= '0' && l.ch <= '9' && l.looksLikeIONumber() {
		start := l.position
		for l.ch >= '0' && l.ch <= '9' {
			l.readChar()
		}
		return mk(token.IONUMBER, l.input[start:l.position], pos)
	}

	return l.scanWordToken(pos)
}

func (l *Lexer) looksLikeIONumber() bool {
	i := 1
	for {
		c := l.peekCharN(i)
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		return c == '<' || c == '>'
	}
}

func (l *Lexer) updateCommandPosAfterOperator(tok token.Token) {
	switch tok.Raw {
	case "|", "||", "&&", "&", ";", ";;", "(", ")":
		l.atCommandPos = true
	default:
		// redirection operators (<, >, <<, <<-, <&, >&, >|, <>) leave the
		// current simple command's word list in progress.
	}
}

func (l *Lexer) scanOperator(pos token.Position) token.Token {
	switch l.ch {
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, "&&", pos)
		}
		l.readChar()
		return mk(token.OPERATOR, "&", pos)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, "||", pos)
		}
		l.readChar()
		return mk(token.OPERATOR, "|", pos)
	case ';':
		if l.peekChar() == ';' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, ";;", pos)
		}
		l.readChar()
		return mk(token.OPERATOR, ";", pos)
	case '(':
		l.readChar()
		return mk(token.OPERATOR, "(", pos)
	case ')':
		l.readChar()
		return mk(token.OPERATOR, ")", pos)
	case '<':
		if l.peekChar() == '<' {
			l.readChar()
			l.readChar()
			stripTabs := false
			if l.ch == '-' {
				stripTabs = true
				l.readChar()
			}
			raw := "<<"
			if stripTabs {
				raw = "<<-"
			}
			tok := mk(token.OPERATOR, raw, pos)
			tok.HeredocID = l.openHeredocRequest(stripTabs)
			return tok
		}
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, "<&", pos)
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, "<>", pos)
		}
		l.readChar()
		return mk(token.OPERATOR, "<", pos)
	case '>':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, ">>", pos)
		}
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, ">&", pos)
		}
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return mk(token.OPERATOR, ">|", pos)
		}
		l.readChar()
		return mk(token.OPERATOR, ">", pos)
	}
	l.readChar()
	return mk(token.ILLEGAL, string(l.ch), pos)
}

// scanWordToken scans one WORD and reclassifies it as ASSIGNMENT or
// KEYWORD per spec.md §4.1's command-position rules.
func (l *Lexer) scanWordToken(pos token.Position) token.Token {
	start := l.position
	word, quotedSpan := l.scanWord()
	raw := l.input[start:l.position]

	tok := mk(token.WORD, raw, pos)
	tok.Word = word

	if l.atCommandPos && isUnquotedLiteral(word) && token.Reserved[raw] {
		tok.Kind = token.KEYWORD
		l.atCommandPos = true
		l.maybeConsumeHeredocDelim(tok)
		return tok
	}

	if l.atCommandPos {
		if name, rest, ok := splitAssignment(word); ok {
			tok.Kind = token.ASSIGNMENT
			tok.AssignName = name
			tok.Word = rest
			l.atCommandPos = true
			l.maybeConsumeHeredocDelim(tok)
			return tok
		}
	}

	l.atCommandPos = false
	_ = quotedSpan
	l.maybeConsumeHeredocDelim(tok)
	return tok
}

func isUnquotedLiteral(w token.Word) bool {
	return len(w.Parts) == 1 && w.Parts[0].Kind == token.PartLiteral &&
		!w.Parts[0].WasSingleQuoted && !w.Parts[0].WasDoubleQuoted
}

// splitAssignment checks whether w begins with a valid unquoted
// "name=" prefix in its first Part, per spec.md §3's variable-name
// validity rule, and if so returns the name and the remaining Word
// representing the value.
func splitAssignment(w token.Word) (name string, rest token.Word, ok bool) {
	if len(w.Parts) == 0 || w.Parts[0].Kind != token.PartLiteral ||
		w.Parts[0].WasSingleQuoted || w.Parts[0].WasDoubleQuoted {
		return "", token.Word{}, false
	}
	text := w.Parts[0].Literal
	if len(text) == 0 || !token.IsNameStart(rune(text[0])) {
		return "", token.Word{}, false
	}
	idx := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '=' {
			idx = i
			break
		}
		if !token.IsNameChar(rune(text[i])) {
			return "", token.Word{}, false
		}
	}
	if idx <= 0 {
		return "", token.Word{}, false
	}
	name = text[:idx]
	value := text[idx+1:]
	parts := append([]token.Part(nil), w.Parts[1:]...)
	if value != "" {
		parts = append([]token.Part{{Kind: token.PartLiteral, Literal: value}}, parts...)
	}
	rest = buildWord(parts)
	return name, rest, true
}

func buildWord(parts []token.Part) token.Word {
	needs := false
	fullyQuoted := true
	for _, p := range parts {
		if p.Kind != token.PartLiteral {
			needs = true
		}
		if !p.WasSingleQuoted && !p.WasDoubleQuoted {
			fullyQuoted = false
		}
	}
	if len(parts) > 1 {
		needs = true
	}
	return token.Word{
		Parts:                  parts,
		NeedsExpansion:         needs,
		NeedsFieldSplitting:    !fullyQuoted,
		NeedsPathnameExpansion: !fullyQuoted,
	}
}

// scanWord implements the word-scanning half of spec.md §4.1: quoting,
// escapes, and expansion sub-lexing, tracking double quotes with a flag
// and delegating each expansion to its own scan function.
// It returns the parsed Word and whether any quoting was seen at all.
func (l *Lexer) scanWord() (token.Word, bool) {
	var parts []token.Part
	var lit strings.Builder
	dq := false
	sawQuote := false
	afterColon := false

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: lit.String(), WasDoubleQuoted: dq})
			lit.Reset()
		}
	}

	atWordStart := func() bool { return len(parts) == 0 && lit.Len() == 0 }

	for {
		ch := l.ch
		switch {
		case ch == 0:
			goto done
		case !dq && isWordBoundary(ch):
			goto done
		case !dq && ch == '\'':
			sawQuote = true
			flush()
			startPos := l.currentPos()
			l.readChar()
			var buf strings.Builder
			for l.ch != '\'' && l.ch != 0 {
				buf.WriteRune(l.ch)
				l.readChar()
			}
			if l.ch == 0 {
				l.addError(ErrUnterminatedQuote, startPos, "unterminated single quote")
			} else {
				l.readChar()
			}
			parts = append(parts, token.Part{Kind: token.PartLiteral, Literal: buf.String(), WasSingleQuoted: true, WasDoubleQuoted: true})
			afterColon = false
		case ch == '"':
			sawQuote = true
			flush()
			dq = !dq
			l.readChar()
			afterColon = false
		case ch == '\\':
			nxt := l.peekChar()
			if dq {
				switch nxt {
				case '$', '`', '\\', '"':
					l.readChar()
					lit.WriteRune(l.ch)
					l.readChar()
				case '\n':
					l.readChar()
					l.readChar()
				default:
					lit.WriteRune('\\')
					l.readChar()
				}
			} else if nxt == '\n' {
				l.readChar()
				l.readChar()
			} else if nxt == 0 {
				lit.WriteRune('\\')
				l.readChar()
			} else {
				l.readChar()
				lit.WriteRune(l.ch)
				l.readChar()
			}
			afterColon = false
		case ch == '$':
			if part, ok := l.scanDollar(dq); ok {
				flush()
				parts = append(parts, part)
			} else {
				lit.WriteRune('$')
			}
			afterColon = false
		case ch == '`':
			part := l.scanBacktick(dq)
			flush()
			parts = append(parts, part)
			afterColon = false
		case ch == '~' && !dq && (atWordStart() || afterColon):
			flush()
			parts = append(parts, l.scanTilde())
			afterColon = false
		default:
			lit.WriteRune(ch)
			afterColon = ch == ':'
			l.readChar()
		}
	}
done:
	if dq {
		l.addError(ErrUnterminatedExpansion, l.currentPos(), "unterminated double quote")
	}
	flush()
	return buildWord(parts), sawQuote
}

// scanDollar scans the sub-lexing rules following an unescaped '$'
// (spec.md §4.1 "Expansion sub-lexing"). ok is false when '$' is not
// followed by anything that opens an expansion, in which case '$' is a
// literal character: only the '$' itself has been consumed, and the
// caller records it as literal text.
func (l *Lexer) scanDollar(dq bool) (token.Part, bool) {
	switch l.peekChar() {
	case '(':
		if l.peekCharN(2) == '(' {
			l.readChar() // consume '$'
			l.readChar() // consume first '('
			l.readChar() // consume second '('
			body := l.scanBalancedArith()
			return token.Part{Kind: token.PartArithmetic, Text: body, WasDoubleQuoted: dq}, true
		}
		l.readChar() // '$'
		l.readChar() // '('
		body := l.scanBalancedParens()
		return token.Part{Kind: token.PartCommandSub, Text: body, WasDoubleQuoted: dq}, true
	case '{':
		l.readChar()
		l.readChar()
		body := l.scanBalancedBraces()
		return token.Part{Kind: token.PartParameter, Text: body, WasDoubleQuoted: dq}, true
	default:
		l.readChar() // consume '$'
		name := l.scanParamName()
		if name == "" {
			return token.Part{}, false
		}
		return token.Part{Kind: token.PartParameter, Text: name, WasDoubleQuoted: dq}, true
	}
}

func (l *Lexer) scanParamName() string {
	switch l.ch {
	case '@', '*', '#', '?', '-', '$', '!':
		r := l.ch
		l.readChar()
		return string(r)
	}
	if l.ch >= '0' && l.ch <= '9' {
		r := l.ch
		l.readChar()
		return string(r)
	}
	if token.IsNameStart(l.ch) {
		start := l.position
		for token.IsNameChar(l.ch) {
			l.readChar()
		}
		return l.input[start:l.position]
	}
	return ""
}

// scanBalancedParens scans a $( ... ) command substitution body after the
// opening "$(" has been consumed, respecting nested quotes so an
// unescaped ')' inside a string literal does not close the substitution.
func (l *Lexer) scanBalancedParens() string {
	var buf strings.Builder
	depth := 0
	startPos := l.currentPos()
	for {
		switch {
		case l.ch == 0:
			l.addError(ErrUnterminatedExpansion, startPos, "unterminated command substitution")
			return buf.String()
		case l.ch == '\'':
			buf.WriteRune(l.ch)
			l.readChar()
			for l.ch != '\'' && l.ch != 0 {
				buf.WriteRune(l.ch)
				l.readChar()
			}
			if l.ch == '\'' {
				buf.WriteRune(l.ch)
				l.readChar()
			}
		case l.ch == '"':
			buf.WriteRune(l.ch)
			l.readChar()
			for l.ch != '"' && l.ch != 0 {
				if l.ch == '\\' {
					buf.WriteRune(l.ch)
					l.readChar()
					if l.ch != 0 {
						buf.WriteRune(l.ch)
						l.readChar()
					}
					continue
				}
				buf.WriteRune(l.ch)
				l.readChar()
			}
			if l.ch == '"' {
				buf.WriteRune(l.ch)
				l.readChar()
			}
		case l.ch == '\\':
			buf.WriteRune(l.ch)
			l.readChar()
			if l.ch != 0 {
				buf.WriteRune(l.ch)
				l.readChar()
			}
		case l.ch == '(':
			depth++
			buf.WriteRune(l.ch)
			l.readChar()
		case l.ch == ')':
			if depth == 0 {
				l.readChar()
				return buf.String()
			}
			depth--
			buf.WriteRune(l.ch)
			l.readChar()
		default:
			buf.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// scanBalancedArith scans a $(( ... )) body after "$((" has been
// consumed, terminating on the first ")" at depth 0 that is immediately
// followed by a second ")".
func (l *Lexer) scanBalancedArith() string {
	var buf strings.Builder
	depth := 0
	startPos := l.currentPos()
	for {
		switch {
		case l.ch == 0:
			l.addError(ErrUnterminatedExpansion, startPos, "unterminated arithmetic expansion")
			return buf.String()
		case l.ch == '(':
			depth++
			buf.WriteRune(l.ch)
			l.readChar()
		case l.ch == ')':
			if depth == 0 && l.peekChar() == ')' {
				l.readChar()
				l.readChar()
				return buf.String()
			}
			if depth > 0 {
				depth--
			}
			buf.WriteRune(l.ch)
			l.readChar()
		default:
			buf.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// scanBalancedBraces scans a ${ ... } body after "${" has been consumed.
// Nested braces and escapes are preserved verbatim; the operator syntax
// inside is reparsed opaquely at expansion time (spec.md §4.1).
func (l *Lexer) scanBalancedBraces() string {
	var buf strings.Builder
	depth := 0
	startPos := l.currentPos()
	for {
		switch {
		case l.ch == 0:
			l.addError(ErrUnterminatedExpansion, startPos, "unterminated parameter expansion")
			return buf.String()
		case l.ch == '\\':
			buf.WriteRune(l.ch)
			l.readChar()
			if l.ch != 0 {
				buf.WriteRune(l.ch)
				l.readChar()
			}
		case l.ch == '{':
			depth++
			buf.WriteRune(l.ch)
			l.readChar()
		case l.ch == '}':
			if depth == 0 {
				l.readChar()
				return buf.String()
			}
			depth--
			buf.WriteRune(l.ch)
			l.readChar()
		default:
			buf.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// scanBacktick scans a `...` command substitution starting at its
// opening backtick, consuming both the opening and the closing backtick.
func (l *Lexer) scanBacktick(dq bool) token.Part {
	startPos := l.currentPos()
	l.readChar() // consume opening `
	var buf strings.Builder
	for {
		switch {
		case l.ch == 0:
			l.addError(ErrUnterminatedExpansion, startPos, "unterminated backtick command substitution")
			return token.Part{Kind: token.PartCommandSub, Backtick: true, Text: buf.String(), WasDoubleQuoted: dq}
		case l.ch == '\\' && (l.peekChar() == '$' || l.peekChar() == '`' || l.peekChar() == '\\' || l.peekChar() == '\n'):
			buf.WriteRune(l.ch)
			l.readChar()
			buf.WriteRune(l.ch)
			l.readChar()
		case l.ch == '`':
			l.readChar()
			return token.Part{Kind: token.PartCommandSub, Backtick: true, Text: buf.String(), WasDoubleQuoted: dq}
		default:
			buf.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func isTildeNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '.':
		return true
	default:
		return false
	}
}

func (l *Lexer) scanTilde() token.Part {
	l.readChar() // consume '~'
	start := l.position
	for isTildeNameChar(l.ch) {
		l.readChar()
	}
	return token.Part{Kind: token.PartTilde, Text: l.input[start:l.position]}
}
