package expand

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MatchPattern reports whether name matches a shell glob pattern per
// spec.md §4.2 "Pathname expansion": `*` matches any run of bytes not
// including '/', `?` matches a single byte, `[set]` is a character class
// with `!`/`^` negation and `a-z` ranges. A dot at position 0 must match
// a literal dot — callers are expected to have already rejected that
// case before calling MatchPattern on a leading-dot name when the
// pattern doesn't itself start with a literal dot.
func MatchPattern(pattern, name string) bool {
	return matchHere(pattern, name)
}

func matchHere(pat, s string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			// Collapse consecutive '*' and try every suffix of s.
			for len(pat) > 0 && pat[0] == '*' {
				pat = pat[1:]
			}
			if len(pat) == 0 {
				return !strings.Contains(s, "/")
			}
			for i := 0; i <= len(s); i++ {
				if strings.Contains(s[:i], "/") {
					break
				}
				if matchHere(pat, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 || s[0] == '/' {
				return false
			}
			pat, s = pat[1:], s[1:]
		case '[':
			end := classEnd(pat)
			if end < 0 || len(s) == 0 || s[0] == '/' {
				return false
			}
			if !matchClass(pat[1:end], s[0]) {
				return false
			}
			pat, s = pat[end+1:], s[1:]
		case '\\':
			if len(pat) < 2 || len(s) == 0 || pat[1] != s[0] {
				return false
			}
			pat, s = pat[2:], s[1:]
		default:
			if len(s) == 0 || pat[0] != s[0] {
				return false
			}
			pat, s = pat[1:], s[1:]
		}
	}
	return len(s) == 0
}

// classEnd returns the index of the ']' closing the "[...]" starting at
// pat[0], or -1 if unterminated. A ']' immediately after "[" or "[!"/"[^"
// is a literal member, not the terminator.
func classEnd(pat string) int {
	i := 1
	if i < len(pat) && (pat[i] == '!' || pat[i] == '^') {
		i++
	}
	if i < len(pat) && pat[i] == ']' {
		i++
	}
	for i < len(pat) {
		if pat[i] == ']' {
			return i
		}
		i++
	}
	return -1
}

func matchClass(set string, c byte) bool {
	negate := false
	if len(set) > 0 && (set[0] == '!' || set[0] == '^') {
		negate = true
		set = set[1:]
	}
	matched := false
	for i := 0; i < len(set); i++ {
		if i+2 < len(set) && set[i+1] == '-' {
			lo, hi := set[i], set[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 2
			continue
		}
		if set[i] == c {
			matched = true
		}
	}
	if negate {
		return !matched
	}
	return matched
}

// HasMagic reports whether pattern contains any unquoted glob
// metacharacter, used by the expander to decide whether a field needs
// pathname expansion at all.
func HasMagic(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[':
			return true
		case '\\':
			i++
		}
	}
	return false
}

// Expand performs pathname expansion of pattern against the current
// working directory (or an absolute/relative path embedded in the
// pattern), returning matches sorted in byte order. If there are no
// matches, the caller is expected to retain the original field
// (spec.md §4.2 "No-match policy"): Expand itself just returns nil.
func Expand(pattern string) []string {
	dir, base := splitPattern(pattern)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var matches []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if MatchPattern(base, name) {
			if dir == "." {
				matches = append(matches, name)
			} else {
				matches = append(matches, filepath.Join(dir, name))
			}
		}
	}
	sort.Strings(matches)
	return matches
}

// splitPattern separates the directory portion of pattern (which may
// itself contain no glob characters, since this simplified expander
// only globs the final path component) from its final component.
func splitPattern(pattern string) (dir, base string) {
	idx := strings.LastIndex(pattern, "/")
	if idx < 0 {
		return ".", pattern
	}
	dir = pattern[:idx]
	if dir == "" {
		dir = "/"
	}
	return dir, pattern[idx+1:]
}
