package extractor

import (
	"fmt"

	"github.com/google/uuid"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
)

// Normalize validates pre-parsed rows. Valid rows become transactions, in
// input order; every rejected row yields one error. Rows without an id get a
// deterministic one derived from their position and content.
func (e *Extractor) Normalize(raws []models.RawTransaction) ([]models.Transaction, []error) {
	txs := make([]models.Transaction, 0, len(raws))
	var warnings []error

	for i, raw := range raws {
		tx, err := raw.Normalize(i + 1)
		if err != nil {
			e.logger.WithError(err).Warn("Skipping invalid transaction row",
				logging.Field{Key: logging.FieldRow, Value: i + 1})
			warnings = append(warnings, err)
			continue
		}
		if tx.ID == "" {
			tx.ID = rowID(i+1, tx)
		}
		txs = append(txs, tx)
	}
	return txs, warnings
}

func rowID(row int, tx models.Transaction) string {
	key := fmt.Sprintf("row:%d|%s|%s|%s|%s", row, tx.Date, tx.Description, tx.Amount.StringFixed(2), tx.Counterparty)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
