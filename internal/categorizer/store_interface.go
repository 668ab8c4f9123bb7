package categorizer

import (
	"context"

	"bscpro/bank-export/internal/models"
)

// RuleStore is the read side of the categorization rule repository. The
// engine never writes through it.
type RuleStore interface {
	// ListActiveRules returns the active rules of userID, preferably ordered
	// by priority descending. The engine re-sorts them regardless.
	ListActiveRules(ctx context.Context, userID string) ([]models.Rule, error)
}
