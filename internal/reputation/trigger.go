package reputation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriggerDetector decides whether message text contains one of the
// configured reputation trigger phrases. Matching is case-insensitive and
// requires word boundaries on both sides, so "party" never matches "ty".
type TriggerDetector struct {
	triggers []string
}

// NewTriggerDetector creates a detector for the given phrases.
func NewTriggerDetector(triggers []string) *TriggerDetector {
	lowered := make([]string, 0, len(triggers))
	for _, trigger := range triggers {
		trigger = strings.ToLower(strings.TrimSpace(trigger))
		if trigger != "" {
			lowered = append(lowered, trigger)
		}
	}

	return &TriggerDetector{triggers: lowered}
}

// Match reports whether the content contains any trigger phrase as a
// standalone word.
func (d *TriggerDetector) Match(content string) bool {
	lower := strings.ToLower(content)

	for _, trigger := range d.triggers {
		if containsWord(lower, trigger) {
			return true
		}
	}

	return false
}

// containsWord scans every occurrence of phrase in s and reports whether any
// of them is flanked by non-alphanumeric runes or string boundaries.
func containsWord(s, phrase string) bool {
	for start := 0; start <= len(s)-len(phrase); {
		pos := strings.Index(s[start:], phrase)
		if pos < 0 {
			return false
		}

		pos += start
		end := pos + len(phrase)

		if boundaryBefore(s, pos) && boundaryAfter(s, end) {
			return true
		}

		start = pos + 1
	}

	return false
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}

	r, _ := utf8.DecodeLastRuneInString(s[:pos])

	return !isWordRune(r)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}

	r, _ := utf8.DecodeRuneInString(s[end:])

	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
