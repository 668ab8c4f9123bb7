// Package store persists categorization rules. Three backends share the same
// semantics: an in-memory set for tests and one-off runs, a YAML file for the
// CLI and a Postgres table (through GORM) for the HTTP service.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"bscpro/bank-export/internal/categorizer"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// ErrRuleNotFound is returned when a rule id does not exist for the user.
var ErrRuleNotFound = errors.New("categorization rule not found")

// RuleRepository is the full read/write surface of a rule backend.
type RuleRepository interface {
	categorizer.RuleStore

	// ListRules returns every rule of the user, inactive ones included.
	ListRules(ctx context.Context, userID string) ([]models.Rule, error)

	// AddRule stores a new rule after applying defaults and validation.
	// Priority is stored as given; zero is a valid priority.
	AddRule(ctx context.Context, rule models.Rule) (models.Rule, error)

	// UpdateRule applies the set fields of patch to an existing rule.
	UpdateRule(ctx context.Context, userID, id string, patch RulePatch) (models.Rule, error)

	// DeleteRule deactivates a rule. Rules are never physically removed.
	DeleteRule(ctx context.Context, userID, id string) error

	// SeedDefaults copies the built-in rules to the user and returns how
	// many were added. Rules the user already has are left alone.
	SeedDefaults(ctx context.Context, userID string) (int, error)

	Close() error
}

// RulePatch is a create or update request for a rule. Nil fields keep their
// default on create and their current value on update.
type RulePatch struct {
	Keyword       *string           `json:"keyword"`
	MatchType     *models.MatchType `json:"match_type"`
	GrootboekCode *string           `json:"grootboek_code"`
	BTWPercentage *string           `json:"btw_percentage"`
	CategoryName  *string           `json:"category_name"`
	Priority      *int              `json:"priority"`
	IsActive      *bool             `json:"is_active"`
}

// Empty reports whether the patch sets no field.
func (p RulePatch) Empty() bool {
	return p == RulePatch{}
}

// NewRule builds the rule a create request describes. An absent priority
// becomes models.DefaultRulePriority.
func (p RulePatch) NewRule(userID string) models.Rule {
	r := p.applyTo(models.Rule{UserID: userID, Priority: models.DefaultRulePriority})
	r.IsActive = true
	return r
}

func (p RulePatch) applyTo(r models.Rule) models.Rule {
	if p.Keyword != nil {
		r.Keyword = *p.Keyword
	}
	if p.MatchType != nil {
		r.MatchType = *p.MatchType
	}
	if p.GrootboekCode != nil {
		r.GrootboekCode = *p.GrootboekCode
	}
	if p.BTWPercentage != nil {
		r.BTWPercentage = *p.BTWPercentage
	}
	if p.CategoryName != nil {
		r.CategoryName = *p.CategoryName
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
	return r
}

// trimRule drops the surrounding spaces of the text fields. The keyword is
// only trimmed for contains and exact rules, where spaces never matter.
func trimRule(r models.Rule) models.Rule {
	r.MatchType = r.EffectiveMatchType()
	switch r.MatchType {
	case models.MatchContains, models.MatchExact:
		r.Keyword = strings.TrimSpace(r.Keyword)
	}
	r.GrootboekCode = strings.TrimSpace(r.GrootboekCode)
	r.CategoryName = strings.TrimSpace(r.CategoryName)
	r.BTWPercentage = strings.TrimSpace(r.BTWPercentage)
	return r
}

// prepareNew applies the defaults of a new rule and validates it.
func prepareNew(r models.Rule, now time.Time) (models.Rule, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return models.Rule{}, &pipelineerror.InputError{Field: "user_id", Reason: "is required"}
	}
	r = trimRule(r)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	r.IsActive = true

	if err := r.Validate(); err != nil {
		return models.Rule{}, err
	}
	return r, nil
}

// merge applies patch to existing and validates the result.
func merge(existing models.Rule, patch RulePatch) (models.Rule, error) {
	if patch.Empty() {
		return models.Rule{}, &pipelineerror.InputError{Field: "rule", Reason: "no fields to update"}
	}
	updated := trimRule(patch.applyTo(existing))
	if err := updated.Validate(); err != nil {
		return models.Rule{}, err
	}
	return updated, nil
}

// seedKey identifies a rule for SeedDefaults deduplication.
func seedKey(r models.Rule) string {
	return string(r.EffectiveMatchType()) + "\x00" + strings.ToLower(strings.TrimSpace(r.Keyword))
}

// sortByPriority orders rules for listing: priority descending, then
// creation time ascending.
func sortByPriority(rules []models.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})
}

// ruleSet holds the rules of all users for the file and memory backends.
type ruleSet []models.Rule

func (s ruleSet) forUser(userID string) []models.Rule {
	var out []models.Rule
	for _, r := range s {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sortByPriority(out)
	return out
}

func (s ruleSet) activeForUser(userID string) []models.Rule {
	return categorizer.OrderRules(s.forUser(userID))
}

func (s ruleSet) indexOf(userID, id string) int {
	for i, r := range s {
		if r.UserID == userID && r.ID == id {
			return i
		}
	}
	return -1
}

func (s ruleSet) add(r models.Rule, now time.Time) (ruleSet, models.Rule, error) {
	prepared, err := prepareNew(r, now)
	if err != nil {
		return s, models.Rule{}, err
	}
	if s.indexOf(prepared.UserID, prepared.ID) >= 0 {
		return s, models.Rule{}, &pipelineerror.InputError{Field: "id", Reason: "already exists"}
	}
	return append(s, prepared), prepared, nil
}

func (s ruleSet) update(userID, id string, patch RulePatch) (models.Rule, error) {
	i := s.indexOf(userID, id)
	if i < 0 {
		return models.Rule{}, ErrRuleNotFound
	}
	updated, err := merge(s[i], patch)
	if err != nil {
		return models.Rule{}, err
	}
	s[i] = updated
	return updated, nil
}

func (s ruleSet) deactivate(userID, id string) error {
	i := s.indexOf(userID, id)
	if i < 0 {
		return ErrRuleNotFound
	}
	s[i].IsActive = false
	return nil
}

func (s ruleSet) seed(userID string, now time.Time) (ruleSet, int, error) {
	existing := make(map[string]bool)
	for _, r := range s.forUser(userID) {
		existing[seedKey(r)] = true
	}

	added := 0
	for _, d := range DefaultRules() {
		if existing[seedKey(d)] {
			continue
		}
		d.UserID = userID
		var err error
		if s, _, err = s.add(d, now); err != nil {
			return s, added, err
		}
		existing[seedKey(d)] = true
		added++
	}
	return s, added, nil
}

// checkContext returns the context error, if any, before a store operation.
func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

var (
	_ RuleRepository = (*MemoryStore)(nil)
	_ RuleRepository = (*YAMLStore)(nil)
	_ RuleRepository = (*SQLStore)(nil)
)
