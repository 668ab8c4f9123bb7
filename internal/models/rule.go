package models

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"bscpro/bank-export/internal/pipelineerror"
)

// MatchType controls how a rule keyword is compared to transaction text.
type MatchType string

// Supported match types.
const (
	MatchContains   MatchType = "contains"
	MatchExact      MatchType = "exact"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchRegex      MatchType = "regex"
)

// DefaultRulePriority is assigned to rules created without a priority.
const DefaultRulePriority = 100

// Rule is a user-defined keyword categorization rule.
type Rule struct {
	ID            string    `json:"id" yaml:"id"`
	UserID        string    `json:"user_id" yaml:"user_id"`
	Keyword       string    `json:"keyword" yaml:"keyword"`
	MatchType     MatchType `json:"match_type" yaml:"match_type"`
	GrootboekCode string    `json:"grootboek_code" yaml:"grootboek_code"`
	BTWPercentage string    `json:"btw_percentage" yaml:"btw_percentage"`
	CategoryName  string    `json:"category_name,omitempty" yaml:"category_name,omitempty"`
	Priority      int       `json:"priority" yaml:"priority"`
	IsActive      bool      `json:"is_active" yaml:"is_active"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// EffectiveMatchType returns the match type, treating empty as contains.
func (r Rule) EffectiveMatchType() MatchType {
	if r.MatchType == "" {
		return MatchContains
	}
	return MatchType(strings.ToLower(string(r.MatchType)))
}

// MatchKeyword returns the keyword in the form it is compared in. Prefix
// keywords keep trailing spaces and suffix keywords keep leading spaces, so
// "NS " does not match "nsgroep". Regex keywords are returned untouched.
func (r Rule) MatchKeyword() string {
	switch r.EffectiveMatchType() {
	case MatchRegex:
		return r.Keyword
	case MatchStartsWith:
		return strings.ToLower(strings.TrimLeftFunc(r.Keyword, unicode.IsSpace))
	case MatchEndsWith:
		return strings.ToLower(strings.TrimRightFunc(r.Keyword, unicode.IsSpace))
	}
	return strings.ToLower(strings.TrimSpace(r.Keyword))
}

// CompileRegex compiles the case-insensitive pattern of a regex rule.
func (r Rule) CompileRegex() (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + r.MatchKeyword())
}

// Validate reports the first missing or unusable field of the rule.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return &pipelineerror.RuleError{RuleID: r.ID, Field: "keyword", Reason: "is required"}
	}
	if strings.TrimSpace(r.GrootboekCode) == "" {
		return &pipelineerror.RuleError{RuleID: r.ID, Field: "grootboek_code", Reason: "is required"}
	}
	if _, err := ParseBTW(r.BTWPercentage); err != nil {
		return &pipelineerror.RuleError{RuleID: r.ID, Field: "btw_percentage", Reason: err.Error()}
	}
	switch r.EffectiveMatchType() {
	case MatchContains, MatchExact, MatchStartsWith, MatchEndsWith:
	case MatchRegex:
		if _, err := r.CompileRegex(); err != nil {
			return &pipelineerror.RuleError{RuleID: r.ID, Field: "keyword", Reason: "invalid regular expression"}
		}
	default:
		return &pipelineerror.RuleError{RuleID: r.ID, Field: "match_type", Reason: "unsupported value " + string(r.MatchType)}
	}
	return nil
}
