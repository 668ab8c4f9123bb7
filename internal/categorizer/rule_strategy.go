package categorizer

import (
	"context"
	"sort"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// RuleMatchConfidence is reported for classifications produced by a rule.
const RuleMatchConfidence = 0.95

// RuleStrategy applies user rules in evaluation order; the first match wins.
type RuleStrategy struct {
	rules []compiledRule
}

// NewRuleStrategy orders the active rules, compiles them and drops the
// malformed ones with a warning.
func NewRuleStrategy(rules []models.Rule, userID string, logger logging.Logger) *RuleStrategy {
	ordered := OrderRules(rules)
	compiled := make([]compiledRule, 0, len(ordered))
	for _, r := range ordered {
		c, err := compileRule(r)
		if err != nil {
			logger.WithError(&pipelineerror.ClassificationError{UserID: userID, RuleID: r.ID, Err: err}).
				Warn("Skipping malformed categorization rule", logging.Field{Key: logging.FieldRuleID, Value: r.ID})
			continue
		}
		compiled = append(compiled, c)
	}
	return &RuleStrategy{rules: compiled}
}

// Name returns the name of this strategy for logging.
func (s *RuleStrategy) Name() string {
	return "Rule"
}

// Len returns the number of usable rules.
func (s *RuleStrategy) Len() int {
	return len(s.rules)
}

// Classify returns the classification of the first matching rule.
func (s *RuleStrategy) Classify(_ context.Context, tx models.Transaction) (models.Classification, bool) {
	for _, c := range s.rules {
		if !c.matchesTransaction(tx) {
			continue
		}
		return models.Classification{
			CategoryName:   c.rule.CategoryName,
			GrootboekCode:  c.rule.GrootboekCode,
			BTWRate:        c.rate,
			Method:         models.MethodRuleMatch,
			RuleID:         c.rule.ID,
			MatchedKeyword: c.rule.Keyword,
			Confidence:     RuleMatchConfidence,
		}, true
	}
	return models.Classification{}, false
}

// OrderRules returns the active rules in evaluation order: priority
// descending, then creation time ascending, then input order. Rules without
// a creation time sort after dated rules of the same priority.
func OrderRules(rules []models.Rule) []models.Rule {
	active := make([]models.Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.CreatedAt.IsZero() != b.CreatedAt.IsZero() {
			return !a.CreatedAt.IsZero()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return active
}
