package db

import (
	"strings"
	"unicode"
)

// Tokenize lowercases and splits query text into alphanumeric tokens. The
// output is safe to interpolate into FT.SEARCH syntax without escaping.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
