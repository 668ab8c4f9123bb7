// Package textutils provides the text clean-up helpers applied to transaction
// descriptions before they are written into an interchange format.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces line breaks, tabs and runs of spaces by a
// single space and trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// StripControl removes control characters that are not allowed in XML 1.0
// text, keeping tab, line feed and carriage return.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case unicode.IsControl(r), r == '\uFFFE', r == '\uFFFF':
			return -1
		}
		return r
	}, s)
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// StripPathChars removes characters that are unsafe in a download filename.
func StripPathChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// RemoveSpaces drops every whitespace character, e.g. to compact an IBAN.
func RemoveSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
