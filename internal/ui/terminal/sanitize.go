package terminal

import (
	"strings"
	"unicode"
)

// Clean drops control characters from peer-provided text so escape sequences
// never reach the terminal. Printable text is kept verbatim, markup and
// entities included. Newlines and tabs survive; see CleanLine for names.
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// CleanLine is Clean for single-line fields such as display names.
func CleanLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, Clean(s))
	return strings.TrimSpace(s)
}
