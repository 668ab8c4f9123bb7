package btw

import (
	"regexp"
	"unicode/utf8"
)

// boundary matches the start of the text or a non-alphanumeric rune.
const boundary = `(^|[^\p{L}\p{N}])`

// phrase is a compiled keyword. Short keywords (three runes or fewer) must
// match a whole word so that "ing" does not hit "betaling" and "ov" does
// not hit "overboeking"; longer keywords must start a word.
type phrase struct {
	text string
	re   *regexp.Regexp
}

func compilePhrase(keyword string) phrase {
	pattern := `(?i)` + boundary + regexp.QuoteMeta(keyword)
	if utf8.RuneCountInString(keyword) <= 3 {
		pattern += `($|[^\p{L}\p{N}])`
	}
	return phrase{text: keyword, re: regexp.MustCompile(pattern)}
}

func (p phrase) in(text string) bool {
	return p.re.MatchString(text)
}

func (p phrase) length() int {
	return utf8.RuneCountInString(p.text)
}
