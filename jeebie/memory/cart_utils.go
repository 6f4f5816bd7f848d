package memory

import (
	"strings"
	"unicode"
)

// cleanGameboyTitle turns the raw header title into display text: padding
// NULs become spaces, non-printable bytes become '?' and the result is trimmed.
func cleanGameboyTitle(titleBytes []byte) string {
	title := strings.Map(func(r rune) rune {
		switch {
		case r == 0:
			return ' '
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
			return '?'
		}
		return r
	}, string(titleBytes))

	title = strings.TrimSpace(title)
	if title == "" {
		return "(Untitled)"
	}
	return title
}
