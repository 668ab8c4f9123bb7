package categorizer

import (
	"strings"

	"bscpro/bank-export/internal/models"
)

// compiledRule is a validated rule with its match function prepared.
type compiledRule struct {
	rule    models.Rule
	rate    models.BTWRate
	matches func(text string) bool
}

func compileRule(r models.Rule) (compiledRule, error) {
	if err := r.Validate(); err != nil {
		return compiledRule{}, err
	}
	rate, _ := models.ParseBTW(r.BTWPercentage)
	keyword := r.MatchKeyword()

	var match func(string) bool
	switch r.EffectiveMatchType() {
	case models.MatchExact:
		match = func(text string) bool { return normalize(text) == keyword }
	case models.MatchStartsWith:
		match = func(text string) bool { return strings.HasPrefix(normalize(text), keyword) }
	case models.MatchEndsWith:
		match = func(text string) bool { return strings.HasSuffix(normalize(text), keyword) }
	case models.MatchRegex:
		re, err := r.CompileRegex()
		if err != nil {
			return compiledRule{}, err
		}
		match = re.MatchString
	default:
		match = func(text string) bool { return strings.Contains(normalize(text), keyword) }
	}

	return compiledRule{rule: r, rate: rate, matches: match}, nil
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// matchesTransaction evaluates the rule against the description and then the
// counterparty.
func (c compiledRule) matchesTransaction(tx models.Transaction) bool {
	for _, text := range tx.MatchText() {
		if c.matches(text) {
			return true
		}
	}
	return false
}
