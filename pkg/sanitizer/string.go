package sanitizer

import (
	"strings"
	"unicode"
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// RemoveControlChars drops control characters except newlines, carriage
// returns and tabs.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine is for names and identifiers: control characters are removed,
// remaining line breaks become spaces and the result is trimmed.
var SingleLine = Compose(
	RemoveControlChars,
	strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace,
	Trim,
)
