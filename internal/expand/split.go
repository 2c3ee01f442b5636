package expand

import "strings"

// rawByte pairs one byte of an expansion's intermediate string with
// whether it came from a quoted source, so field splitting can skip
// bytes that were quoted during expansion (spec.md §4.2 "bytes quoted
// during expansion are never separators").
type rawByte struct {
	b      byte
	quoted bool
}

// splitField applies IFS-based field splitting to one fully-concatenated
// intermediate value, per spec.md §4.2 "Field splitting". If ifs is
// empty, no splitting occurs and the whole value (unquoted parts
// stripped of their quote-marker only, not their bytes) is returned as
// one field.
func splitField(bytes []rawByte, ifs string, ifsSet bool) []string {
	if !ifsSet {
		ifs = " \t\n"
	}
	if ifs == "" {
		return []string{joinRaw(bytes)}
	}
	isWhitespaceIFS := func(c byte) bool {
		return strings.IndexByte(ifs, c) >= 0 && (c == ' ' || c == '\t' || c == '\n')
	}
	isIFS := func(c byte) bool { return strings.IndexByte(ifs, c) >= 0 }

	var fields []string
	var cur strings.Builder
	haveField := false
	i := 0
	n := len(bytes)

	// Skip leading IFS-whitespace.
	for i < n && !bytes[i].quoted && isWhitespaceIFS(bytes[i].b) {
		i++
	}

	for i < n {
		rb := bytes[i]
		if !rb.quoted && isIFS(rb.b) {
			if isWhitespaceIFS(rb.b) {
				fields = append(fields, cur.String())
				cur.Reset()
				haveField = false
				for i < n && !bytes[i].quoted && isWhitespaceIFS(bytes[i].b) {
					i++
				}
				continue
			}
			// Non-whitespace IFS byte: always a separator, even adjacent
			// to another one, producing an empty field between them.
			fields = append(fields, cur.String())
			cur.Reset()
			haveField = false
			i++
			// Absorb any immediately following IFS-whitespace as part of
			// this same separator.
			for i < n && !bytes[i].quoted && isWhitespaceIFS(bytes[i].b) {
				i++
			}
			continue
		}
		cur.WriteByte(rb.b)
		haveField = true
		i++
	}
	if haveField || cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	if len(fields) == 0 {
		fields = append(fields, "")
	}
	return fields
}

func joinRaw(bytes []rawByte) string {
	var sb strings.Builder
	for _, rb := range bytes {
		sb.WriteByte(rb.b)
	}
	return sb.String()
}

func quotedBytes(s string) []rawByte {
	out := make([]rawByte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = rawByte{b: s[i], quoted: true}
	}
	return out
}

func unquotedBytes(s string) []rawByte {
	out := make([]rawByte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = rawByte{b: s[i], quoted: false}
	}
	return out
}
