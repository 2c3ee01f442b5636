package lexer

import (
	"testing"

	"github.com/spk121/posh/internal/token"
)

func collectKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(src)
	var kinds []token.Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return kinds
}

func TestSimpleCommand(t *testing.T) {
	kinds := collectKinds(t, "echo hello world\n")
	want := []token.Kind{token.WORD, token.WORD, token.WORD, token.NEWLINE, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestAssignmentAtCommandPosition(t *testing.T) {
	l := New("x=1 echo $x\n")
	tok := l.NextToken()
	if tok.Kind != token.ASSIGNMENT || tok.AssignName != "x" {
		t.Fatalf("got %+v, want ASSIGNMENT x", tok)
	}
	if len(tok.Word.Parts) != 1 || tok.Word.Parts[0].Literal != "1" {
		t.Fatalf("assignment value parts = %+v", tok.Word.Parts)
	}
	next := l.NextToken()
	if next.Kind != token.WORD || next.Raw != "echo" {
		t.Fatalf("got %+v, want WORD echo", next)
	}
}

func TestAssignmentNotAtCommandPosition(t *testing.T) {
	l := New("echo x=1\n")
	l.NextToken() // echo
	tok := l.NextToken()
	if tok.Kind != token.WORD || tok.Raw != "x=1" {
		t.Fatalf("got %+v, want WORD x=1 (not an assignment mid-command)", tok)
	}
}

func TestSingleQuotesAreLiteral(t *testing.T) {
	l := New(`'$x \n literal'` + "\n")
	tok := l.NextToken()
	if tok.Kind != token.WORD || len(tok.Word.Parts) != 1 {
		t.Fatalf("got %+v", tok)
	}
	p := tok.Word.Parts[0]
	if p.Kind != token.PartLiteral || !p.WasSingleQuoted || !p.WasDoubleQuoted {
		t.Fatalf("single-quoted part = %+v, want both quote flags set", p)
	}
	if p.Literal != `$x \n literal` {
		t.Fatalf("literal = %q", p.Literal)
	}
}

func TestDoubleQuotedParameterExpansion(t *testing.T) {
	l := New(`"hello $USER"` + "\n")
	tok := l.NextToken()
	if len(tok.Word.Parts) != 2 {
		t.Fatalf("parts = %+v", tok.Word.Parts)
	}
	if tok.Word.Parts[0].Literal != "hello " {
		t.Fatalf("first part = %+v", tok.Word.Parts[0])
	}
	if tok.Word.Parts[1].Kind != token.PartParameter || tok.Word.Parts[1].Text != "USER" {
		t.Fatalf("second part = %+v", tok.Word.Parts[1])
	}
	if tok.Word.NeedsFieldSplitting {
		t.Errorf("fully double-quoted word must not need field splitting")
	}
}

func TestCommandSubstitutionBalancesParens(t *testing.T) {
	l := New("$(echo $(echo inner))\n")
	tok := l.NextToken()
	if len(tok.Word.Parts) != 1 || tok.Word.Parts[0].Kind != token.PartCommandSub {
		t.Fatalf("parts = %+v", tok.Word.Parts)
	}
	if tok.Word.Parts[0].Text != "echo $(echo inner)" {
		t.Fatalf("command sub body = %q", tok.Word.Parts[0].Text)
	}
}

func TestArithmeticExpansion(t *testing.T) {
	l := New("$((1 + (2 * 3)))\n")
	tok := l.NextToken()
	if len(tok.Word.Parts) != 1 || tok.Word.Parts[0].Kind != token.PartArithmetic {
		t.Fatalf("parts = %+v", tok.Word.Parts)
	}
	if tok.Word.Parts[0].Text != "1 + (2 * 3)" {
		t.Fatalf("arith body = %q", tok.Word.Parts[0].Text)
	}
}

func TestIONumberBeforeRedirect(t *testing.T) {
	l := New("2>&1\n")
	tok := l.NextToken()
	if tok.Kind != token.IONUMBER || tok.Raw != "2" {
		t.Fatalf("got %+v, want IONUMBER 2", tok)
	}
	op := l.NextToken()
	if op.Kind != token.OPERATOR || op.Raw != ">&" {
		t.Fatalf("got %+v, want OPERATOR >&", op)
	}
}

func TestDigitsNotIONumberWithoutRedirect(t *testing.T) {
	l := New("echo 123\n")
	l.NextToken()
	tok := l.NextToken()
	if tok.Kind != token.WORD || tok.Raw != "123" {
		t.Fatalf("got %+v, want WORD 123", tok)
	}
}

func TestHeredocBody(t *testing.T) {
	l := New("cat <<EOF\nhello $x\nEOF\necho done\n")
	l.NextToken() // cat
	op := l.NextToken()
	if op.Kind != token.OPERATOR || op.Raw != "<<" {
		t.Fatalf("got %+v, want OPERATOR <<", op)
	}
	l.NextToken() // EOF delimiter word
	nl := l.NextToken()
	if nl.Kind != token.NEWLINE {
		t.Fatalf("got %+v, want NEWLINE", nl)
	}
	body, ok := l.Heredoc(op.HeredocID)
	if !ok {
		t.Fatalf("no heredoc body recorded")
	}
	if len(body.Parts) != 3 || body.Parts[0].Literal != "hello " || body.Parts[1].Text != "x" || body.Parts[2].Literal != "\n" {
		t.Fatalf("heredoc parts = %+v", body.Parts)
	}
	next := l.NextToken()
	if next.Kind != token.WORD || next.Raw != "echo" {
		t.Fatalf("got %+v, want WORD echo after heredoc", next)
	}
}

func TestHeredocDashStripsTabs(t *testing.T) {
	l := New("cat <<-EOF\n\t\thello\n\tEOF\n")
	l.NextToken()
	op := l.NextToken()
	l.NextToken()
	l.NextToken() // NEWLINE triggers heredoc collection
	body, ok := l.Heredoc(op.HeredocID)
	if !ok {
		t.Fatalf("no heredoc body")
	}
	if len(body.Parts) != 1 || body.Parts[0].Literal != "hello\n" {
		t.Fatalf("body = %+v", body.Parts)
	}
}

func TestUnterminatedSingleQuote(t *testing.T) {
	l := New("echo 'oops\n")
	l.NextToken()
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an unterminated-quote error")
	}
	if l.Errors()[0].Kind != ErrUnterminatedQuote {
		t.Fatalf("got %v", l.Errors()[0].Kind)
	}
}

func TestTildeAtWordStart(t *testing.T) {
	l := New("cd ~/src\n")
	l.NextToken()
	tok := l.NextToken()
	if len(tok.Word.Parts) != 2 || tok.Word.Parts[0].Kind != token.PartTilde {
		t.Fatalf("parts = %+v", tok.Word.Parts)
	}
}

func TestKeywordOnlyAtCommandPosition(t *testing.T) {
	l := New("if true; then echo if; fi\n")
	tok := l.NextToken()
	if tok.Kind != token.KEYWORD || tok.Raw != "if" {
		t.Fatalf("got %+v, want KEYWORD if", tok)
	}
	l.NextToken() // true
	l.NextToken() // ;
	then := l.NextToken()
	if then.Kind != token.KEYWORD || then.Raw != "then" {
		t.Fatalf("got %+v, want KEYWORD then", then)
	}
	l.NextToken() // echo
	notKeyword := l.NextToken()
	if notKeyword.Kind != token.WORD || notKeyword.Raw != "if" {
		t.Fatalf("got %+v, want WORD if (not a keyword mid-command)", notKeyword)
	}
}
