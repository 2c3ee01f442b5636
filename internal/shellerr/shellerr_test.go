package shellerr

import (
	"errors"
	"testing"
)

func TestExitStatusByCategory(t *testing.T) {
	cases := map[Category]int{
		CategoryCommandNotFound: 127,
		CategoryNotExecutable:   126,
		CategorySyntax:          2,
		CategoryBuiltinUsage:    2,
		CategoryRuntime:         1,
	}
	for cat, want := range cases {
		if got := cat.ExitStatus(); got != want {
			t.Errorf("%v.ExitStatus() = %d, want %d", cat, got, want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	root := errors.New("permission denied")
	e := Wrap(CategoryRedirection, "out.txt", root)
	if Cause(e) != root {
		t.Fatalf("Cause() did not unwrap to the original error")
	}
	if e.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestNewHasNoCause(t *testing.T) {
	e := New(CategoryCommandNotFound, "frobnicate")
	if e.Unwrap() != nil {
		t.Fatal("New() should not wrap a cause")
	}
}
