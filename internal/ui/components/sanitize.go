package components

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// CSI sequences such as colors and cursor movement.
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	// OSC sequences (titles, hyperlinks) terminated by BEL or ST.
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
)

var bidiControls = map[rune]struct{}{
	'\u202a': {},
	'\u202b': {},
	'\u202c': {},
	'\u202d': {},
	'\u202e': {},
	'\u2066': {},
	'\u2067': {},
	'\u2068': {},
	'\u2069': {},
	'\u200e': {},
	'\u200f': {},
}

func stripEscapes(input string) string {
	cleaned := oscPattern.ReplaceAllString(input, "")
	return csiPattern.ReplaceAllString(cleaned, "")
}

// SanitizeText strips control characters and escape sequences from message text and
// names received from the server. Newlines and tabs survive.
func SanitizeText(input string) string {
	if input == "" {
		return input
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if _, ok := bidiControls[r]; ok {
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, stripEscapes(input))
}

// SanitizeOneLine is SanitizeText for single-line slots like sidebar rows: newlines and
// tabs collapse to spaces.
func SanitizeOneLine(input string) string {
	if input == "" {
		return input
	}
	cleaned := SanitizeText(input)
	cleaned = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(cleaned)
	return strings.TrimSpace(cleaned)
}
