package expand

import (
	"fmt"
	"testing"

	"github.com/spk121/posh/internal/lexer"
)

type testEnv struct {
	vars     map[string]string
	readonly map[string]bool
	params   []string
	arg0     string
	ifs      string
	ifsSet   bool
	subOut   string
}

func newTestEnv() *testEnv {
	return &testEnv{vars: map[string]string{}, readonly: map[string]bool{}, arg0: "sh", ifsSet: false}
}

func (e *testEnv) GetVar(name string) (string, bool) { v, ok := e.vars[name]; return v, ok }
func (e *testEnv) SetVar(name, value string) error {
	if e.readonly[name] {
		return fmt.Errorf("%s: readonly", name)
	}
	e.vars[name] = value
	return nil
}
func (e *testEnv) IsReadOnly(name string) bool       { return e.readonly[name] }
func (e *testEnv) Positional() []string              { return e.params }
func (e *testEnv) Arg0() string                      { return e.arg0 }
func (e *testEnv) IFS() (string, bool)                { return e.ifs, e.ifsSet }
func (e *testEnv) LastExitStatus() int               { return 0 }
func (e *testEnv) ShellPID() int                     { return 4242 }
func (e *testEnv) LastBackgroundPID() int            { return 0 }
func (e *testEnv) OptionFlags() string               { return "" }
func (e *testEnv) RunCommandSubst(body string) (string, error) { return e.subOut, nil }
func (e *testEnv) EvalArith(expr string) (int64, error) { return 0, nil }
func (e *testEnv) ResolveTilde(user string) (string, bool) {
	if user == "" {
		return "/home/u", true
	}
	return "", false
}

func expandSrc(t *testing.T, env *testEnv, src string, mode Mode) []string {
	t.Helper()
	l := lexer.New(src)
	tok := l.NextToken()
	fields, err := ExpandWord(tok.Word, mode, env)
	if err != nil {
		t.Fatalf("ExpandWord(%q) error: %v", src, err)
	}
	return fields
}

func TestExpandPlainParameter(t *testing.T) {
	env := newTestEnv()
	env.vars["USER"] = "alice"
	got := expandSrc(t, env, "$USER", ModeDefault)
	if len(got) != 1 || got[0] != "alice" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandDefaultOperator(t *testing.T) {
	env := newTestEnv()
	got := expandSrc(t, env, "${missing:-fallback}", ModeDefault)
	if len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandLength(t *testing.T) {
	env := newTestEnv()
	env.vars["X"] = "hello"
	got := expandSrc(t, env, "${#X}", ModeDefault)
	if len(got) != 1 || got[0] != "5" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandFieldSplitting(t *testing.T) {
	env := newTestEnv()
	env.vars["LIST"] = "a  b c"
	got := expandSrc(t, env, "$LIST", ModeDefault)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExpandDoubleQuotedSuppressesSplitting(t *testing.T) {
	env := newTestEnv()
	env.vars["LIST"] = "a  b c"
	got := expandSrc(t, env, `"$LIST"`, ModeDefault)
	if len(got) != 1 || got[0] != "a  b c" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandAtInDoubleQuotesProducesSeparateFields(t *testing.T) {
	env := newTestEnv()
	env.params = []string{"one", "two three", "four"}
	got := expandSrc(t, env, `"$@"`, ModeDefault)
	want := []string{"one", "two three", "four"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExpandPrefixSuffixTrim(t *testing.T) {
	env := newTestEnv()
	env.vars["FILE"] = "archive.tar.gz"
	if got := expandSrc(t, env, "${FILE%.gz}", ModeDefault); got[0] != "archive.tar" {
		t.Fatalf("got %v", got)
	}
	if got := expandSrc(t, env, "${FILE%%.*}", ModeDefault); got[0] != "archive" {
		t.Fatalf("got %v", got)
	}
	if got := expandSrc(t, env, "${FILE#*.}", ModeDefault); got[0] != "tar.gz" {
		t.Fatalf("got %v", got)
	}
}

func TestExpandModeNoSplitRejectsMultipleFields(t *testing.T) {
	env := newTestEnv()
	env.params = []string{"a", "b"}
	l := lexer.New(`"$@"`)
	tok := l.NextToken()
	if _, err := ExpandWord(tok.Word, ModeNoSplit, env); err == nil {
		t.Fatal("expected an error for a redirection target expanding to multiple fields")
	}
}

func TestExpandTilde(t *testing.T) {
	env := newTestEnv()
	got := expandSrc(t, env, "~/docs", ModeDefault)
	if len(got) != 1 || got[0] != "/home/u/docs" {
		t.Fatalf("got %v", got)
	}
}

func TestMatchPatternGlobClasses(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"*.txt", "foo.txt", true},
		{"*.txt", "foo.go", false},
		{"a?c", "abc", true},
		{"[abc]x", "bx", true},
		{"[!abc]x", "bx", false},
		{"[a-c]x", "bx", true},
	}
	for _, c := range cases {
		if got := MatchPattern(c.pattern, c.name); got != c.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}
