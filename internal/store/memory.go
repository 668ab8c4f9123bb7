package store

import (
	"context"
	"sync"
	"time"

	"bscpro/bank-export/internal/models"
)

// MemoryStore keeps rules in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	rules ruleSet
	now   func() time.Time

	// ListError, when set, is returned by the list operations. Tests use it
	// to simulate an unavailable backend.
	ListError error
}

// NewMemoryStore creates a MemoryStore holding copies of rules as given.
func NewMemoryStore(rules ...models.Rule) *MemoryStore {
	return &MemoryStore{rules: append(ruleSet(nil), rules...), now: time.Now}
}

// ListActiveRules implements categorizer.RuleStore.
func (s *MemoryStore) ListActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	return s.rules.activeForUser(userID), nil
}

func (s *MemoryStore) ListRules(ctx context.Context, userID string) ([]models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListError != nil {
		return nil, s.ListError
	}
	return s.rules.forUser(userID), nil
}

func (s *MemoryStore) AddRule(ctx context.Context, rule models.Rule) (models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return models.Rule{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var added models.Rule
	var err error
	s.rules, added, err = s.rules.add(rule, s.now())
	return added, err
}

func (s *MemoryStore) UpdateRule(ctx context.Context, userID, id string, patch RulePatch) (models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return models.Rule{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.update(userID, id, patch)
}

func (s *MemoryStore) DeleteRule(ctx context.Context, userID, id string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules.deactivate(userID, id)
}

func (s *MemoryStore) SeedDefaults(ctx context.Context, userID string) (int, error) {
	if err := checkContext(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var added int
	var err error
	s.rules, added, err = s.rules.seed(userID, s.now())
	return added, err
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
