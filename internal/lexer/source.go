package lexer

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PrepareSource strips a UTF-8 byte-order mark and passes the remaining
// bytes through a UTF-8 validating transformer, matching the teacher's
// BOM-stripping convention (internal/lexer lexer_bom_test.go in the
// example pack this module is grounded on). Invalid byte sequences are
// never rejected here — spec.md §4.1 requires the lexer to pass them
// through as literals rather than fail, so PrepareSource only removes the
// BOM and leaves the rest of the bytes untouched even when validation
// reports an error.
func PrepareSource(raw []byte) string {
	if len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF {
		raw = raw[3:]
	}

	decoder := unicode.UTF8.NewDecoder()
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		// Not valid UTF-8: keep the original bytes. The lexer treats
		// invalid sequences as opaque literal bytes, never a structural
		// error (spec.md §4.1 "Failure semantics").
		return string(raw)
	}
	var buf bytes.Buffer
	buf.Write(out)
	return buf.String()
}
