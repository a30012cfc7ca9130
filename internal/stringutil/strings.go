// Package stringutil provides small string helpers shared by the handlers
// and the knowledge retriever.
package stringutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune and lower-cases the rest:
// "MALE" -> "Male", "female" -> "Female".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// SliceRunes returns s[start:end] counted in runes, clamping both bounds.
func SliceRunes(s string, start, end int) string {
	runes := []rune(s)
	start = max(0, min(start, len(runes)))
	end = max(start, min(end, len(runes)))
	return string(runes[start:end])
}

// RuneIndex returns the rune offset of the first occurrence of substr in s,
// or -1 when absent.
func RuneIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}
