// Package sanitizer normalizes free-text input before it is validated or
// persisted. It never rejects input, only cleans it.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims surrounding whitespace and collapses internal
// whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeNote cleans the free-text note attached to a reservation.
func NormalizeNote(note string) string {
	return TrimAndNormalize(note)
}

// NormalizeCode normalizes a resource code to its canonical uppercase form.
func NormalizeCode(code string) string {
	return strings.ToUpper(TrimAndNormalize(code))
}
