// Package extractor turns bank statement text into transactions.
//
// Extraction is pattern based and deliberately permissive: lines that do not
// look like a transaction are skipped without error, so headers, footers and
// page numbers never abort a run.
package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
)

// transactionLine matches "<date> <description> <amount> [marker]" with the
// amount as the last token (apart from an optional debit/credit marker).
var transactionLine = regexp.MustCompile(
	`(?i)(\d{1,2}[-/.]\d{1,2}[-/.]\d{4}|\d{4}-\d{2}-\d{2})\s+(.+?)\s+(?:€\s?|eur\s)?([-+]?\d[\d.,']*[-+]?)(?:\s+(af|bij|dr|cr|d|c|-|\+))?\s*$`)

// counterpartyLabel matches "Naam: ACME B.V." as printed by Dutch banks,
// either on its own line or inside a description.
var counterpartyLabel = regexp.MustCompile(`(?i)\bnaam:\s*(.+?)(?:\s{2,}|\s+(?:omschrijving|iban|kenmerk|referentie):|$)`)

// idNamespace scopes the deterministic transaction ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("bank-export/transaction"))

// Extractor parses statement text. It holds no state between calls.
type Extractor struct {
	logger logging.Logger
}

// New creates an Extractor.
func New(logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Extractor{logger: logger.WithField(logging.FieldComponent, "extractor")}
}

// Extract returns the transactions found in text, in document order.
//
// Amounts follow currencyutils.ParseAmount. A trailing "Af", "D", "DR" or
// "-" marks a debit and "Bij", "C", "CR" or "+" a credit; an explicit marker
// overrides the sign of the amount itself. A "Naam:" line directly below a
// transaction sets its counterparty.
func (e *Extractor) Extract(text string) []models.Transaction {
	var txs []models.Transaction
	lastMatched := false

	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		tx, ok := e.parseLine(i+1, line)
		if ok {
			txs = append(txs, tx)
			lastMatched = true
			continue
		}

		if lastMatched && txs[len(txs)-1].Counterparty == "" {
			if name := counterpartyFrom(line); name != "" {
				txs[len(txs)-1].Counterparty = name
				continue
			}
		}
		lastMatched = false
	}

	e.logger.Debug("Extracted transactions from text",
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return txs
}

func (e *Extractor) parseLine(lineNo int, line string) (models.Transaction, bool) {
	m := transactionLine.FindStringSubmatch(line)
	if m == nil {
		return models.Transaction{}, false
	}

	date, err := dateutils.NormalizeStatementDate(m[1])
	if err != nil {
		e.logger.Debug("Skipping line with impossible date",
			logging.Field{Key: logging.FieldRow, Value: lineNo},
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return models.Transaction{}, false
	}

	amount, err := currencyutils.ParseAmount(m[3])
	if err != nil {
		e.logger.Debug("Skipping line with unreadable amount",
			logging.Field{Key: logging.FieldRow, Value: lineNo},
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return models.Transaction{}, false
	}
	switch strings.ToLower(m[4]) {
	case "af", "d", "dr", "-":
		amount = amount.Abs().Neg()
	case "bij", "c", "cr", "+":
		amount = amount.Abs()
	}

	description := strings.TrimSpace(m[2])
	if description == "" {
		return models.Transaction{}, false
	}

	return models.Transaction{
		ID:           lineID(lineNo, line),
		Date:         date,
		Description:  description,
		Amount:       amount.Round(2),
		Counterparty: counterpartyFrom(description),
	}, true
}

func counterpartyFrom(text string) string {
	m := counterpartyLabel.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func lineID(lineNo int, line string) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d:%s", lineNo, strings.TrimSpace(line)))).String()
}
