package common

import (
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
)

// ClassificationStats counts how transactions were classified.
type ClassificationStats struct {
	Total      int
	RuleMatch  int
	Fallback   int
	Unassigned int
}

// CollectClassificationStats tallies classifications. Transactions that
// have no classification at all count as unassigned.
func CollectClassificationStats(txs []models.Transaction, classifications map[string]models.Classification) ClassificationStats {
	stats := ClassificationStats{Total: len(txs)}
	for _, tx := range txs {
		c, ok := models.ExportRequest{Classifications: classifications}.ClassificationFor(tx)
		switch {
		case !ok:
			stats.Unassigned++
		case c.IsRuleMatch():
			stats.RuleMatch++
		default:
			stats.Fallback++
		}
	}
	return stats
}

// RuleMatchRate returns the share of transactions matched by a rule, in
// percent.
func (s ClassificationStats) RuleMatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.RuleMatch) * 100 / float64(s.Total)
}

// LogSummary writes the statistics at info level.
func (s ClassificationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil || s.Total == 0 {
		return
	}
	logger.Info("Classification summary",
		logging.Field{Key: "source", Value: source},
		logging.Field{Key: logging.FieldCount, Value: s.Total},
		logging.Field{Key: "rule_match", Value: s.RuleMatch},
		logging.Field{Key: "fallback", Value: s.Fallback},
		logging.Field{Key: "unassigned", Value: s.Unassigned},
		logging.Field{Key: "rule_match_rate", Value: s.RuleMatchRate()})
}
