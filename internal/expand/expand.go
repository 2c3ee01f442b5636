package expand

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spk121/posh/internal/token"
)

// Mode selects which of spec.md §4.2's trailing stages run after a
// word's Parts have been expanded and concatenated.
type Mode int

const (
	// ModeDefault performs field splitting (if needed) followed by
	// pathname expansion (if needed) — ordinary command-word expansion.
	ModeDefault Mode = iota
	// ModeNoSplit is used for redirection targets and assignment values
	// (spec.md §4.2 "Redirection target expansion"/"Assignment-value
	// expansion"): no field splitting, no pathname expansion, but a
	// "$@"-style expansion that yields more than one field is an error.
	ModeNoSplit
)

// ExpandWord performs the full expansion pipeline of spec.md §4.2 for
// one lexer Word: per-Part expansion (tilde, parameter, command
// substitution, arithmetic, literal) in order, concatenation preserving
// quote provenance, then (per mode) field splitting and pathname
// expansion.
func ExpandWord(w token.Word, mode Mode, env Environment) ([]string, error) {
	var bytes []rawByte
	var preSplit []string
	havePreSplit := false

	for _, part := range w.Parts {
		switch part.Kind {
		case token.PartLiteral:
			if part.WasDoubleQuoted {
				bytes = append(bytes, quotedBytes(part.Literal)...)
			} else {
				bytes = append(bytes, unquotedBytes(part.Literal)...)
			}
		case token.PartTilde:
			home, ok := env.ResolveTilde(part.Text)
			if ok {
				bytes = append(bytes, quotedBytes(home)...)
			} else {
				bytes = append(bytes, unquotedBytes("~"+part.Text)...)
			}
		case token.PartParameter:
			res, err := expandParameter(part.Text, part.WasDoubleQuoted, env)
			if err != nil {
				return nil, err
			}
			if res.isFields {
				havePreSplit = true
				preSplit = append(preSplit, res.fields...)
				continue
			}
			if part.WasDoubleQuoted {
				bytes = append(bytes, quotedBytes(res.value)...)
			} else {
				bytes = append(bytes, unquotedBytes(res.value)...)
			}
		case token.PartCommandSub:
			body := part.Text
			if part.Backtick {
				body = unescapeBacktickBody(body)
			}
			out, err := env.RunCommandSubst(body)
			if err != nil {
				return nil, err
			}
			out = strings.TrimRight(out, "\n")
			if part.WasDoubleQuoted {
				bytes = append(bytes, quotedBytes(out)...)
			} else {
				bytes = append(bytes, unquotedBytes(out)...)
			}
		case token.PartArithmetic:
			v, err := env.EvalArith(part.Text)
			if err != nil {
				return nil, err
			}
			bytes = append(bytes, quotedBytes(strconv.FormatInt(v, 10))...)
		}
	}

	if havePreSplit {
		if len(bytes) > 0 {
			// A "$@"/"$*" Part mixed with literal text around it:
			// attach the literal remainder to the last pre-split field.
			preSplit[len(preSplit)-1] += joinRaw(bytes)
		}
		if mode == ModeNoSplit && len(preSplit) > 1 {
			return nil, fmt.Errorf("word expanded to multiple fields where one was expected")
		}
		return preSplit, nil
	}

	if mode == ModeNoSplit {
		return []string{joinRaw(bytes)}, nil
	}

	fields := []string{joinRaw(bytes)}
	if w.NeedsFieldSplitting {
		ifs, ifsSet := env.IFS()
		fields = splitField(bytes, ifs, ifsSet)
	}

	if !w.NeedsPathnameExpansion {
		return fields, nil
	}
	var out []string
	for _, f := range fields {
		if !HasMagic(f) {
			out = append(out, f)
			continue
		}
		matches := Expand(f)
		if len(matches) == 0 {
			out = append(out, f)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

// unescapeBacktickBody processes the backslash-escapes specific to
// backtick command substitution (spec.md §4.1: "inside backticks,
// backslash escapes only $, backtick, \, newline") before the body is
// handed to the executor as a script.
func unescapeBacktickBody(body string) string {
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case '$', '`', '\\', '\n':
				sb.WriteByte(body[i+1])
				i++
				continue
			}
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
