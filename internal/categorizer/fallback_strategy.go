package categorizer

import (
	"context"

	"bscpro/bank-export/internal/btw"
	"bscpro/bank-export/internal/models"
)

// FallbackStrategy classifies every transaction as unclassified, with the
// BTW rate guessed by the detector. It always succeeds.
type FallbackStrategy struct {
	detector *btw.Detector
}

// NewFallbackStrategy creates a FallbackStrategy around detector.
func NewFallbackStrategy(detector *btw.Detector) *FallbackStrategy {
	if detector == nil {
		detector = btw.NewDetector()
	}
	return &FallbackStrategy{detector: detector}
}

// Name returns the name of this strategy for logging.
func (s *FallbackStrategy) Name() string {
	return "Fallback"
}

// Classify never fails.
func (s *FallbackStrategy) Classify(_ context.Context, tx models.Transaction) (models.Classification, bool) {
	result := s.detector.Detect(tx.Counterparty, tx.Description, "")
	return models.Classification{
		CategoryName: models.UnclassifiedCategory,
		BTWRate:      result.Rate,
		Method:       models.MethodFallback,
		Confidence:   float64(result.Confidence) / 100,
	}, true
}
