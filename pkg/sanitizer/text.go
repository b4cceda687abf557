package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName prepares a display name: Unicode NFC composition, control
// characters removed and whitespace runs collapsed to a single space.
func NormalizeName(s string) string {
	return Apply(s, norm.NFC.String, RemoveControlChars, CollapseWhitespace)
}

// RemoveControlChars drops Unicode control characters other than whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// CollapseWhitespace trims s and replaces inner whitespace runs with one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
