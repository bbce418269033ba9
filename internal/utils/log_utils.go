// Package utils holds small helpers shared across the agent
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLogStringLength caps user utterances quoted in log output
const MaxLogStringLength = 200

// nonPrintableRe strips anything that is not a letter, number,
// punctuation, symbol or space
var nonPrintableRe = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// SanitizeLogString makes a user-controlled string safe to quote in logs:
// control characters become spaces, overly long input is truncated, and
// format specifiers are escaped. Chat utterances go through here before
// they appear in any log line.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if len(input) > MaxLogStringLength {
		input = input[:MaxLogStringLength] + "... (truncated)"
	}

	// Collapse CRLF first so it maps to a single space below
	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	sanitized = strings.ReplaceAll(sanitized, "%", "%%")

	return nonPrintableRe.ReplaceAllString(sanitized, "")
}
