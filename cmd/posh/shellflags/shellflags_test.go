package shellflags

import (
	"testing"

	"github.com/spk121/posh/internal/frame"
)

func TestScanBundledEnable(t *testing.T) {
	toggles, ok := Scan("-eux")
	if !ok {
		t.Fatalf("Scan(-eux) failed to scan")
	}
	want := []Toggle{
		{Option: frame.OptErrexit, Enable: true},
		{Option: frame.OptNounset, Enable: true},
		{Option: frame.OptXtrace, Enable: true},
	}
	if len(toggles) != len(want) {
		t.Fatalf("toggles = %v, want %v", toggles, want)
	}
	for i, tg := range toggles {
		if tg != want[i] {
			t.Fatalf("toggles[%d] = %v, want %v", i, tg, want[i])
		}
	}
}

func TestScanBundledDisable(t *testing.T) {
	toggles, ok := Scan("+e")
	if !ok {
		t.Fatalf("Scan(+e) failed to scan")
	}
	if len(toggles) != 1 || toggles[0].Option != frame.OptErrexit || toggles[0].Enable {
		t.Fatalf("toggles = %v, want single disabling errexit", toggles)
	}
}

func TestScanRejectsLongFlagsAndBareDash(t *testing.T) {
	for _, arg := range []string{"--errexit", "-", "--", "script.sh"} {
		if _, ok := Scan(arg); ok {
			t.Fatalf("Scan(%q) scanned, want rejection", arg)
		}
	}
}

func TestScanRejectsUnknownLetter(t *testing.T) {
	if _, ok := Scan("-eZ"); ok {
		t.Fatalf("Scan(-eZ) scanned, want rejection on unknown letter Z")
	}
}

func TestApply(t *testing.T) {
	set := frame.NewOptionSet()
	Apply(set, []Toggle{{Option: frame.OptErrexit, Enable: true}, {Option: frame.OptXtrace, Enable: true}})
	if !set.Get(frame.OptErrexit) || !set.Get(frame.OptXtrace) {
		t.Fatalf("Apply did not enable both options")
	}
}
