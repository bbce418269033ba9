package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"PlainUtterance", "book Baillieu on 14/12", "book Baillieu on 14/12"},
		{"FormatSpecifiers", "call it %s room %d", "call it %%s room %%d"},
		{"Newlines", "first line\nsecond line\r\nthird line", "first line second line third line"},
		{"ControlCharacters", "book\ta\x00room\x1Fnow", "book a room now"},
		{"HTMLIsLeftAlone", "call it <script>alert('x');</script>", "call it <script>alert('x');</script>"},
		{
			"Truncation",
			strings.Repeat("A", 300),
			strings.Repeat("A", MaxLogStringLength) + "... (truncated)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogString(tt.input))
		})
	}
}
