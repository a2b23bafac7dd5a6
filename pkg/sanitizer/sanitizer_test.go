package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notesaas/pkg/sanitizer"
)

func TestTrim(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "acme", sanitizer.Trim("  acme\n\t"))
	assert.Equal(t, "", sanitizer.Trim("   "))
}

func TestRemoveControlChars(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in, want string
	}{
		"plain":            {"hello", "hello"},
		"null and bell":    {"he\x00ll\ao", "hello"},
		"keeps whitespace": {"line one\r\nline two\tend", "line one\r\nline two\tend"},
		"keeps padding":    {"  spaced  ", "  spaced  "},
		"escape sequences": {"\x1b[31mred\x1b[0m", "[31mred[0m"},
		"unicode":          {"café\u0085 ☕", "café ☕"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.RemoveControlChars(tt.in))
		})
	}
}

func TestApplyAndCompose(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ACME", sanitizer.Apply("  acme ", sanitizer.Trim, strings.ToUpper))
	assert.Equal(t, "x", sanitizer.Apply("x"))

	clean := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.Trim)
	assert.Equal(t, "acme", clean(" \x00acme\x07 "))
	assert.Equal(t, "team", clean("team"))
}

func TestSingleLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Acme Team", sanitizer.SingleLine("  Acme\nTeam\x00 "))
	assert.Equal(t, "a b c", sanitizer.SingleLine("a\r\nb\tc"))
}
