// Package strings provides normalization helpers for comparing user-entered
// names case- and accent-insensitively.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey trims and lowercases a value so it can be used as a
// case-insensitive comparison or map key.
//
// Example:
//
//	NormalizeKey("  PEDIATRÍA ")
//	// Returns: "pediatría"
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FoldKey is like NormalizeKey but also strips diacritics.
//
// Example:
//
//	FoldKey(" Miércoles")
//	// Returns: "miercoles"
func FoldKey(s string) string {
	return StripAccents(NormalizeKey(s))
}

// StripAccents removes combining marks after canonical decomposition.
// The transformer is built per call: transform chains carry state.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Capitalize trims s, upper-cases its first rune and lower-cases the rest.
//
// Example:
//
//	Capitalize("  medicina GENERAL")
//	// Returns: "Medicina general"
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
