package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/textutils"
)

// row is a transaction that made it into the export.
type row struct {
	tx             models.Transaction
	date           time.Time
	classification models.Classification
	classified     bool
}

// batch is the validated input shared by all formatters. Balances are
// computed over rows only, so headers and totals always agree with the
// transactions actually written.
type batch struct {
	rows         []row
	now          time.Time
	iban         string
	ibanProvided bool
	bank         string
	owner        string
	total        decimal.Decimal
	warnings     []string
}

func prepare(req models.ExportRequest, opts Options) (*batch, error) {
	if len(req.Transactions) == 0 {
		return nil, &pipelineerror.InputError{Field: "transactions", Reason: "no transactions to export"}
	}

	b := &batch{now: opts.Clock.Now()}

	b.iban = textutils.RemoveSpaces(req.IBAN)
	b.ibanProvided = b.iban != ""
	if !b.ibanProvided {
		if opts.RequireIBAN {
			return nil, &pipelineerror.InputError{Field: "rekeningnummer", Reason: "an IBAN is required for this export"}
		}
		b.iban = opts.PlaceholderIBAN
		b.warnings = append(b.warnings, fmt.Sprintf("no IBAN supplied, using %s", opts.PlaceholderIBAN))
	}

	b.bank = textutils.StripPathChars(strings.TrimSpace(req.Bank))
	if b.bank == "" {
		b.bank = opts.DefaultBank
	}

	b.owner = strings.TrimSpace(req.User.CompanyName)
	if b.owner == "" {
		b.owner = opts.OwnerName
	}

	today := time.Date(b.now.Year(), b.now.Month(), b.now.Day(), 0, 0, 0, 0, time.UTC)
	b.total = decimal.Zero
	for i, tx := range req.Transactions {
		date := today
		if strings.TrimSpace(tx.Date) != "" {
			parsed, err := dateutils.ParseStatementDate(tx.Date)
			if err != nil {
				ferr := &pipelineerror.FormatError{Row: i + 1, Field: "date", Value: tx.Date, Err: err}
				b.warnings = append(b.warnings, ferr.Error())
				continue
			}
			date = parsed
		}

		tx.Amount = tx.Amount.Round(2)
		c, ok := req.ClassificationFor(tx)
		b.rows = append(b.rows, row{tx: tx, date: date, classification: c, classified: ok})
		b.total = b.total.Add(tx.Amount)
	}

	if len(b.rows) == 0 {
		return nil, &pipelineerror.InputError{Field: "transactions", Reason: "none of the transactions could be exported"}
	}
	return b, nil
}

func creditDebit(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return models.IndicatorDebit
	}
	return models.IndicatorCredit
}
