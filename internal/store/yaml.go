package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
)

// rulesFile is the on-disk layout of a YAML rule file.
type rulesFile struct {
	Rules []models.Rule `yaml:"rules"`
}

// YAMLStore persists rules in a single YAML file. The file is re-read on
// every call so edits made by hand are picked up without a restart.
type YAMLStore struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewYAMLStore creates a store for filename. When the file exists in one of
// the standard locations that copy is used; otherwise filename is created on
// the first write.
func NewYAMLStore(filename string, logger logging.Logger) *YAMLStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	path := filename
	if found, err := FindRulesFile(filename); err == nil {
		path = found
	}
	return &YAMLStore{
		path:   path,
		logger: logger.WithField(logging.FieldStore, "yaml"),
		now:    time.Now,
	}
}

// Path returns the file the store reads and writes.
func (s *YAMLStore) Path() string {
	return s.path
}

// FindRulesFile looks for a rule file in the standard locations.
func FindRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".bank-export", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *YAMLStore) load() (ruleSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Rules file not found, starting empty",
				logging.Field{Key: logging.FieldFilename, Value: s.path})
			return nil, nil
		}
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", s.path, err)
	}
	return ruleSet(file.Rules), nil
}

func (s *YAMLStore) save(rules ruleSet) error {
	data, err := yaml.Marshal(rulesFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("error writing rules file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing rules file: %w", err)
	}

	s.logger.Debug("Saved categorization rules",
		logging.Field{Key: logging.FieldFilename, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return nil
}

// ListActiveRules implements categorizer.RuleStore.
func (s *YAMLStore) ListActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rules, err := s.load()
	if err != nil {
		return nil, err
	}
	return rules.activeForUser(userID), nil
}

func (s *YAMLStore) ListRules(ctx context.Context, userID string) ([]models.Rule, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rules, err := s.load()
	if err != nil {
		return nil, err
	}
	return rules.forUser(userID), nil
}

func (s *YAMLStore) AddRule(ctx context.Context, rule models.Rule) (models.Rule, error) {
	var added models.Rule
	err := s.mutate(ctx, func(rules ruleSet) (ruleSet, error) {
		var err error
		rules, added, err = rules.add(rule, s.now())
		return rules, err
	})
	return added, err
}

func (s *YAMLStore) UpdateRule(ctx context.Context, userID, id string, patch RulePatch) (models.Rule, error) {
	var updated models.Rule
	err := s.mutate(ctx, func(rules ruleSet) (ruleSet, error) {
		var err error
		updated, err = rules.update(userID, id, patch)
		return rules, err
	})
	return updated, err
}

func (s *YAMLStore) DeleteRule(ctx context.Context, userID, id string) error {
	return s.mutate(ctx, func(rules ruleSet) (ruleSet, error) {
		return rules, rules.deactivate(userID, id)
	})
}

func (s *YAMLStore) SeedDefaults(ctx context.Context, userID string) (int, error) {
	var added int
	err := s.mutate(ctx, func(rules ruleSet) (ruleSet, error) {
		var err error
		rules, added, err = rules.seed(userID, s.now())
		return rules, err
	})
	return added, err
}

// mutate loads the file, applies fn and writes the result back. Nothing is
// written when fn fails.
func (s *YAMLStore) mutate(ctx context.Context, fn func(ruleSet) (ruleSet, error)) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load()
	if err != nil {
		return err
	}
	rules, err = fn(rules)
	if err != nil {
		return err
	}
	return s.save(rules)
}

// Close is a no-op.
func (s *YAMLStore) Close() error {
	return nil
}
