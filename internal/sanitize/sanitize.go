// Package sanitize cleans free text before it is stored or exported.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips every HTML tag and unprintable character from s and trims it.
// Entities are decoded afterwards, so the result is plain text and is not
// safe to embed as HTML: a literal "&lt;b&gt;" comes back as "<b>". Callers
// rendering HTML must escape it.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(StripUnprintable(s))))
}

// Formula prefixes a single quote when s would be evaluated as a formula by
// a spreadsheet application.
func Formula(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StripUnprintable drops non-printable runes, keeping tab, newline and
// carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
