package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
)

const (
	csvBOM       = "\uFEFF"
	csvSeparator = ";"
	csvNewline   = "\n"
)

var csvHeader = []string{
	"Datum", "Omschrijving", "Categorie", "Grootboek", "BTW_Percentage",
	"Bedrag", "Saldo", "IBAN", "Tegenrekening", "Methode",
}

// Methode column values.
const (
	MethodAutomatic = "Automatisch"
	MethodManual    = "Handmatig"
)

// CSVFormatter writes semicolon-separated UTF-8 with a byte order mark, the
// layout Dutch spreadsheet software opens without an import wizard.
type CSVFormatter struct {
	opts Options
}

// NewCSVFormatter creates a CSVFormatter.
func NewCSVFormatter(opts Options) *CSVFormatter {
	return &CSVFormatter{opts: opts.withDefaults()}
}

// Format implements Formatter. Saldo is a running sum starting at zero, so
// the last Saldo equals the sum of all Bedrag values.
func (f *CSVFormatter) Format(req models.ExportRequest) (*Result, error) {
	b, err := prepare(req, f.opts)
	if err != nil {
		return nil, err
	}

	iban := ""
	if b.ibanProvided {
		iban = b.iban
	}

	var sb strings.Builder
	sb.WriteString(csvBOM)
	sb.WriteString(strings.Join(csvHeader, csvSeparator))
	sb.WriteString(csvNewline)

	balance := decimal.Zero
	for _, r := range b.rows {
		balance = balance.Add(r.tx.Amount)

		category, ledger, method := "", "", MethodManual
		rate := models.BTWUnknown
		if r.classified {
			category = r.classification.CategoryName
			ledger = r.classification.GrootboekCode
			rate = r.classification.BTWRate
			if r.classification.IsRuleMatch() {
				method = MethodAutomatic
			}
		}

		fields := []string{
			r.date.Format(dateutils.LayoutStatement),
			quoteAlways(singleLine(r.tx.Description)),
			quoteIfNeeded(category),
			quoteIfNeeded(ledger),
			models.FormatBTW(rate),
			currencyutils.FormatDot(r.tx.Amount),
			currencyutils.FormatDot(balance),
			quoteIfNeeded(iban),
			"",
			method,
		}
		sb.WriteString(strings.Join(fields, csvSeparator))
		sb.WriteString(csvNewline)
	}

	return &Result{
		Bytes:       []byte(sb.String()),
		ContentType: "text/csv; charset=utf-8",
		Filename:    fmt.Sprintf("%s_transacties_%s_%d.csv", b.bank, dateutils.DutchMonth(b.now.Month()), b.now.Year()),
		Warnings:    b.warnings,
	}, nil
}

func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

func quoteAlways(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, "\";\r\n") {
		return quoteAlways(singleLine(s))
	}
	return s
}
