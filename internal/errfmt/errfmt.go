// Package errfmt caps engine output embedded in error messages.
// Non-conformant engines can emit arbitrarily long garbage lines; quoting
// them verbatim in a syntax error would propagate unbounded content.
package errfmt

import "unicode/utf8"

// MaxLen is the maximum number of bytes of an offending line that a
// syntax error will quote.
const MaxLen = 256

// Truncate caps s at MaxLen bytes, backtracking to a valid UTF-8
// boundary so the quoted fragment never splits a rune.
func Truncate(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	end := MaxLen
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
