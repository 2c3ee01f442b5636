package arith

import "testing"

type mapResolver map[string]string

func (m mapResolver) Get(name string) (string, bool) { v, ok := m[name]; return v, ok }
func (m mapResolver) Assign(name string, value int64) error {
	m[name] = formatInt(value)
	return nil
}

func formatInt(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestPrecedence(t *testing.T) {
	cases := map[string]int64{
		"1 + 2 * 3":        7,
		"(1 + 2) * 3":      9,
		"10 / 3":           3,
		"10 % 3":           1,
		"2 ** 10":          1024,
		"1 == 1":           1,
		"1 != 1":           0,
		"1 ? 2 : 3":        2,
		"0 ? 2 : 3":        3,
		"5 > 3 && 2 < 4":   1,
		"-5 + 3":           -2,
		"!0":               1,
		"~0":               -1,
	}
	for expr, want := range cases {
		got, err := Eval(expr, nil)
		if err != nil {
			t.Errorf("Eval(%q) error: %v", expr, err)
			continue
		}
		if got != want {
			t.Errorf("Eval(%q) = %d, want %d", expr, got, want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := Eval("1 / 0", nil); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestVariableReferenceAndAssignment(t *testing.T) {
	r := mapResolver{"x": "10"}
	got, err := Eval("x + 5", r)
	if err != nil || got != 15 {
		t.Fatalf("got %d, %v", got, err)
	}
	if _, err := Eval("y = 42", r); err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	if r["y"] != "42" {
		t.Fatalf("y = %q, want 42", r["y"])
	}
	if _, err := Eval("x += 1", r); err != nil {
		t.Fatalf("compound assignment error: %v", err)
	}
	if r["x"] != "11" {
		t.Fatalf("x = %q, want 11", r["x"])
	}
}
