package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// ruleRecord is the GORM model of the categorization_rules table.
type ruleRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        string    `gorm:"not null;index"`
	Keyword       string    `gorm:"not null"`
	MatchType     string    `gorm:"not null"`
	GrootboekCode string    `gorm:"not null"`
	BTWPercentage string    `gorm:"column:btw_percentage;not null"`
	CategoryName  *string
	Priority      int  `gorm:"not null;index"`
	IsActive      bool `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ruleRecord) TableName() string {
	return "categorization_rules"
}

func toRecord(r models.Rule) (ruleRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return ruleRecord{}, &pipelineerror.InputError{Field: "id", Reason: "must be a UUID"}
	}
	rec := ruleRecord{
		ID:            id,
		UserID:        r.UserID,
		Keyword:       r.Keyword,
		MatchType:     string(r.EffectiveMatchType()),
		GrootboekCode: r.GrootboekCode,
		BTWPercentage: r.BTWPercentage,
		Priority:      r.Priority,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}
	if r.CategoryName != "" {
		name := r.CategoryName
		rec.CategoryName = &name
	}
	return rec, nil
}

func fromRecord(rec ruleRecord) models.Rule {
	r := models.Rule{
		ID:            rec.ID.String(),
		UserID:        rec.UserID,
		Keyword:       rec.Keyword,
		MatchType:     models.MatchType(rec.MatchType),
		GrootboekCode: rec.GrootboekCode,
		BTWPercentage: rec.BTWPercentage,
		Priority:      rec.Priority,
		IsActive:      rec.IsActive,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.CategoryName != nil {
		r.CategoryName = *rec.CategoryName
	}
	return r
}

func fromRecords(recs []ruleRecord) []models.Rule {
	rules := make([]models.Rule, len(recs))
	for i, rec := range recs {
		rules[i] = fromRecord(rec)
	}
	return rules
}

// SQLStore is the Postgres rule repository.
type SQLStore struct {
	db     *gorm.DB
	logger logging.Logger
	now    func() time.Time
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *gorm.DB, logger logging.Logger) *SQLStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &SQLStore{db: db, logger: logger.WithField(logging.FieldStore, "sql"), now: time.Now}
}

// OpenSQLStore connects to dsn and migrates the rules table.
func OpenSQLStore(dsn string, logQueries bool, logger logging.Logger) (*SQLStore, error) {
	level := gormlogger.Silent
	if logQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&ruleRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate categorization_rules: %w", err)
	}

	store := NewSQLStore(db, logger)
	store.logger.Info("Connected to rule database")
	return store, nil
}

// ListActiveRules implements categorizer.RuleStore.
func (s *SQLStore) ListActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	var recs []ruleRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("priority DESC").
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}
	return fromRecords(recs), nil
}

func (s *SQLStore) ListRules(ctx context.Context, userID string) ([]models.Rule, error) {
	var recs []ruleRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority DESC").
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return fromRecords(recs), nil
}

func (s *SQLStore) AddRule(ctx context.Context, rule models.Rule) (models.Rule, error) {
	prepared, err := prepareNew(rule, s.now())
	if err != nil {
		return models.Rule{}, err
	}
	rec, err := toRecord(prepared)
	if err != nil {
		return models.Rule{}, err
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Rule{}, fmt.Errorf("failed to create rule: %w", err)
	}
	return fromRecord(rec), nil
}

func (s *SQLStore) UpdateRule(ctx context.Context, userID, id string, patch RulePatch) (models.Rule, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Rule{}, ErrRuleNotFound
	}
	var rec ruleRecord
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Rule{}, ErrRuleNotFound
	}
	if err != nil {
		return models.Rule{}, fmt.Errorf("failed to load rule: %w", err)
	}

	updated, err := merge(fromRecord(rec), patch)
	if err != nil {
		return models.Rule{}, err
	}
	next, err := toRecord(updated)
	if err != nil {
		return models.Rule{}, err
	}
	if err := s.db.WithContext(ctx).Save(&next).Error; err != nil {
		return models.Rule{}, fmt.Errorf("failed to update rule: %w", err)
	}
	return fromRecord(next), nil
}

func (s *SQLStore) DeleteRule(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrRuleNotFound
	}
	result := s.db.WithContext(ctx).
		Model(&ruleRecord{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *SQLStore) SeedDefaults(ctx context.Context, userID string) (int, error) {
	added := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []ruleRecord
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return err
		}

		var current ruleSet = fromRecords(existing)
		next, n, err := current.seed(userID, s.now())
		if err != nil {
			return err
		}

		recs := make([]ruleRecord, 0, n)
		for _, r := range next[len(current):] {
			rec, err := toRecord(r)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		if len(recs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&recs, 50).Error; err != nil {
			return err
		}
		added = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed default rules: %w", err)
	}

	s.logger.Info("Seeded default rules",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: added})
	return added, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
