package expand

import (
	"fmt"
	"strings"

	"github.com/spk121/posh/internal/lexer"
)

// paramResult is the outcome of expanding one Parameter Part: either an
// ordinary single string, or (for double-quoted "$@") a pre-split list
// of fields that bypasses ordinary field splitting (spec.md §4.2
// "Special parameters during expansion").
type paramResult struct {
	value    string
	fields   []string // non-nil only for the "$@" special case
	isFields bool
}

// expandParameter resolves one Parameter Part's opaque Text against env,
// applying the operator syntax of spec.md §4.2 "Parameter operators" when
// Text names a "${...}" expansion with an operator suffix.
func expandParameter(text string, inDoubleQuotes bool, env Environment) (paramResult, error) {
	name, op, arg, indirect, length := splitParamOperator(text)
	if indirect {
		target, _ := env.GetVar(name)
		name = target
	}

	if length {
		val, _ := lookupVar(name, env)
		return paramResult{value: fmt.Sprintf("%d", len(val))}, nil
	}

	if name == "@" || name == "*" {
		return expandAllPositional(name, inDoubleQuotes, env), nil
	}

	val, isSet := lookupVar(name, env)

	switch op {
	case "":
		return paramResult{value: val}, nil
	case ":-", "-":
		useDefault := !isSet || (op == ":-" && val == "")
		if useDefault {
			return paramResult{value: expandOperand(arg, env)}, nil
		}
		return paramResult{value: val}, nil
	case ":=", "=":
		needsAssign := !isSet || (op == ":=" && val == "")
		if needsAssign {
			if env.IsReadOnly(name) {
				return paramResult{}, fmt.Errorf("%s: readonly variable", name)
			}
			def := expandOperand(arg, env)
			if err := env.SetVar(name, def); err != nil {
				return paramResult{}, err
			}
			return paramResult{value: def}, nil
		}
		return paramResult{value: val}, nil
	case ":?", "?":
		failNow := !isSet || (op == ":?" && val == "")
		if failNow {
			msg := expandOperand(arg, env)
			if msg == "" {
				msg = "parameter null or not set"
			}
			return paramResult{}, fmt.Errorf("%s: %s", name, msg)
		}
		return paramResult{value: val}, nil
	case ":+", "+":
		useAlt := isSet && !(op == ":+" && val == "")
		if useAlt {
			return paramResult{value: expandOperand(arg, env)}, nil
		}
		return paramResult{value: ""}, nil
	case "#", "##":
		return paramResult{value: trimPrefix(val, arg, op == "##")}, nil
	case "%", "%%":
		return paramResult{value: trimSuffix(val, arg, op == "%%")}, nil
	default:
		return paramResult{}, fmt.Errorf("%s: bad substitution", text)
	}
}

// lookupVar resolves an ordinary or special/positional parameter name.
func lookupVar(name string, env Environment) (string, bool) {
	if name == "" {
		return "", false
	}
	if v, ok := lookupSpecial(name, env); ok {
		return v, true
	}
	return env.GetVar(name)
}

func lookupSpecial(name string, env Environment) (string, bool) {
	switch name {
	case "?":
		return fmt.Sprintf("%d", env.LastExitStatus()), true
	case "$":
		return fmt.Sprintf("%d", env.ShellPID()), true
	case "!":
		pid := env.LastBackgroundPID()
		if pid == 0 {
			return "", false
		}
		return fmt.Sprintf("%d", pid), true
	case "-":
		return env.OptionFlags(), true
	case "#":
		return fmt.Sprintf("%d", len(env.Positional())), true
	case "0":
		return env.Arg0(), true
	}
	if len(name) == 1 && name[0] >= '1' && name[0] <= '9' {
		idx := int(name[0] - '1')
		params := env.Positional()
		if idx < len(params) {
			return params[idx], true
		}
		return "", false
	}
	if isAllDigits(name) {
		n := 0
		for _, c := range name {
			n = n*10 + int(c-'0')
		}
		params := env.Positional()
		if n >= 1 && n <= len(params) {
			return params[n-1], true
		}
		return "", false
	}
	return "", false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// expandAllPositional implements spec.md §4.2 "$@"/"$*" handling.
func expandAllPositional(name string, inDoubleQuotes bool, env Environment) paramResult {
	params := env.Positional()
	if inDoubleQuotes && name == "@" {
		return paramResult{fields: append([]string(nil), params...), isFields: true}
	}
	sep := " "
	if ifs, ok := env.IFS(); ok && len(ifs) > 0 {
		sep = ifs[:1]
	} else if ok && ifs == "" {
		sep = ""
	}
	if inDoubleQuotes {
		return paramResult{value: strings.Join(params, sep)}
	}
	// Unquoted "$@"/"$*" expand with ordinary splitting; returning the
	// space-joined value here is sufficient because the caller still
	// runs field splitting over the intermediate string afterward.
	return paramResult{value: strings.Join(params, " ")}
}

// splitParamOperator parses a "${...}" body (or a bare "$name" body,
// which has no operator) into its name, operator, and operator operand,
// per spec.md §4.2's operator list. indirect is true for "${!name}";
// length is true for "${#name}" (but not "${#}", the positional count,
// which splitParamOperator reports as name="#" with no length flag).
func splitParamOperator(text string) (name, op, arg string, indirect, length bool) {
	if text == "" {
		return "", "", "", false, false
	}
	if text == "#" {
		return "#", "", "", false, false
	}
	if text[0] == '#' && len(text) > 1 {
		return text[1:], "", "", false, true
	}
	if text[0] == '!' && len(text) > 1 && isParamNameStart(text[1]) {
		rest := text[1:]
		n, o, a, _, _ := splitParamOperator(rest)
		return n, o, a, true, false
	}

	ops := []string{":-", ":=", ":?", ":+", "##", "%%", "#", "%", "-", "=", "?", "+"}
	for i := 0; i < len(text); i++ {
		if isParamNameStart(text[i]) || (i > 0 && text[i] >= '0' && text[i] <= '9') {
			continue
		}
		for _, o := range ops {
			if strings.HasPrefix(text[i:], o) {
				return text[:i], o, text[i+len(o):], false, false
			}
		}
		break
	}
	return text, "", "", false, false
}

func isParamNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// expandOperand fully expands a "${var:-word}"-style operand, which may
// itself contain parameter/command/arithmetic expansions (spec.md §4.1
// "reparsed at expansion time").
func expandOperand(arg string, env Environment) string {
	word := lexer.ParseEmbeddedWord(arg)
	fields, err := ExpandWord(word, ModeDefault, env)
	if err != nil || len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

func trimPrefix(val, pattern string, longest bool) string {
	return trimMatch(val, pattern, longest, false)
}

func trimSuffix(val, pattern string, longest bool) string {
	return trimMatch(val, pattern, longest, true)
}

// trimMatch implements the "#/##/%/%%" family: try every prefix (or
// suffix) of val against pattern as a glob, keeping the
// shortest-matching or longest-matching candidate per longest.
func trimMatch(val, pattern string, longest, fromEnd bool) string {
	if pattern == "" {
		return val
	}
	best := -1
	if !fromEnd {
		if longest {
			for i := len(val); i >= 0; i-- {
				if MatchPattern(pattern, val[:i]) {
					best = i
					break
				}
			}
		} else {
			for i := 0; i <= len(val); i++ {
				if MatchPattern(pattern, val[:i]) {
					best = i
					break
				}
			}
		}
		if best < 0 {
			return val
		}
		return val[best:]
	}
	if longest {
		for i := 0; i <= len(val); i++ {
			if MatchPattern(pattern, val[i:]) {
				best = i
				break
			}
		}
	} else {
		for i := len(val); i >= 0; i-- {
			if MatchPattern(pattern, val[i:]) {
				best = i
				break
			}
		}
	}
	if best < 0 {
		return val
	}
	return val[:best]
}
