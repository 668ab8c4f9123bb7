// Package categorizer assigns a category, a ledger (grootboek) code and a BTW
// rate to transactions. User rules are tried first, in priority order; what
// no rule matches falls back to the BTW detector.
//
// Classification is a pure function of the transaction and the active rule
// set: there is no clock, randomness or learning involved.
package categorizer

import (
	"context"

	"bscpro/bank-export/internal/btw"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// Engine runs the classification chain. It holds no per-call state and can
// be shared between goroutines.
type Engine struct {
	store    RuleStore
	fallback *FallbackStrategy
	logger   logging.Logger
}

// NewEngine creates an Engine. A nil store behaves like an empty rule set.
func NewEngine(store RuleStore, detector *btw.Detector, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Engine{
		store:    store,
		fallback: NewFallbackStrategy(detector),
		logger:   logger.WithField(logging.FieldComponent, "categorizer"),
	}
}

// Classify classifies every transaction, in input order. It reads the rule
// store exactly once and never returns an error: store failures and
// malformed rules degrade to fallback classification.
func (e *Engine) Classify(ctx context.Context, txs []models.Transaction, userID string) []models.Classification {
	chain := e.chain(ctx, userID)

	results := make([]models.Classification, len(txs))
	for i, tx := range txs {
		results[i] = e.classifyOne(ctx, chain, tx)
	}
	return results
}

// ClassifyTransactions classifies txs and returns the results keyed by
// transaction ID. Transactions without an ID are classified but cannot be
// looked up; for duplicate IDs the first occurrence wins.
func (e *Engine) ClassifyTransactions(ctx context.Context, txs []models.Transaction, userID string) map[string]models.Classification {
	results := e.Classify(ctx, txs, userID)

	byID := make(map[string]models.Classification, len(txs))
	for i, tx := range txs {
		if tx.ID == "" {
			continue
		}
		if _, seen := byID[tx.ID]; seen {
			e.logger.Warn("Duplicate transaction id, keeping first classification",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
			continue
		}
		byID[tx.ID] = results[i]
	}
	return byID
}

func (e *Engine) chain(ctx context.Context, userID string) []Strategy {
	rules := e.loadRules(ctx, userID)
	ruleStrategy := NewRuleStrategy(rules, userID, e.logger.WithField(logging.FieldUserID, userID))

	e.logger.Debug("Categorization rules loaded",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: ruleStrategy.Len()})

	return []Strategy{ruleStrategy, e.fallback}
}

func (e *Engine) loadRules(ctx context.Context, userID string) []models.Rule {
	if e.store == nil {
		return nil
	}
	rules, err := e.store.ListActiveRules(ctx, userID)
	if err != nil {
		e.logger.WithError(&pipelineerror.ClassificationError{UserID: userID, Err: err}).
			Warn("Rule store unavailable, using fallback classification only",
				logging.Field{Key: logging.FieldUserID, Value: userID})
		return nil
	}
	return rules
}

func (e *Engine) classifyOne(ctx context.Context, chain []Strategy, tx models.Transaction) models.Classification {
	for _, s := range chain {
		if c, found := s.Classify(ctx, tx); found {
			e.logger.Debug("Transaction classified",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: "strategy", Value: s.Name()},
				logging.Field{Key: logging.FieldCategory, Value: c.CategoryName})
			return c
		}
	}
	// The fallback strategy always succeeds; this is unreachable with the
	// default chain.
	return models.Classification{CategoryName: models.UnclassifiedCategory, Method: models.MethodFallback}
}
