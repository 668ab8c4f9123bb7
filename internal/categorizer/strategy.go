package categorizer

import (
	"context"

	"bscpro/bank-export/internal/models"
)

// Strategy is one step of the classification chain. Strategies are asked in
// order and the first one that reports found wins.
type Strategy interface {
	Classify(ctx context.Context, tx models.Transaction) (models.Classification, bool)

	// Name identifies the strategy in logs.
	Name() string
}
