package models

// Classification methods.
const (
	MethodRuleMatch = "rule_match"
	MethodFallback  = "fallback"
)

// UnclassifiedCategory is the category assigned when no rule matches.
const UnclassifiedCategory = "Niet geclassificeerd"

// Classification is the categorization result for one transaction.
type Classification struct {
	CategoryName   string  `json:"category_name"`
	GrootboekCode  string  `json:"grootboek_code"`
	BTWRate        BTWRate `json:"btw_rate"`
	Method         string  `json:"method"`
	RuleID         string  `json:"rule_id,omitempty"`
	MatchedKeyword string  `json:"matched_keyword,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// IsRuleMatch reports whether a user rule produced the classification.
func (c Classification) IsRuleMatch() bool {
	return c.Method == MethodRuleMatch
}
